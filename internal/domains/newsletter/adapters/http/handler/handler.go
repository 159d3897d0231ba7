package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	newsletterports "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

type Handler struct {
	service   newsletterports.Service
	responder *apierrors.ChainedResponder
}

func New(service newsletterports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	newsletter := api.Group("/newsletter")
	newsletter.POST("/subscribe", h.Subscribe)
	newsletter.POST("/unsubscribe", h.Unsubscribe)
	newsletter.GET("/subscribers", mw.Required(), mw.RequireAdmin(), h.ListSubscribers)
}

// Subscribe handles POST /api/newsletter/subscribe.
func (h *Handler) Subscribe(c *gin.Context) {
	var payload mapper.SubscribeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	outcome, err := h.service.Subscribe(c.Request.Context(), payload.Email, payload.Name)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if outcome == domain.Subscribed {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"message": mapper.SubscribeMessage(outcome)})
}

// Unsubscribe handles POST /api/newsletter/unsubscribe.
func (h *Handler) Unsubscribe(c *gin.Context) {
	var payload mapper.UnsubscribeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), payload.Email); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully unsubscribed from newsletter"})
}

// ListSubscribers handles GET /api/newsletter/subscribers.
func (h *Handler) ListSubscribers(c *gin.Context) {
	page, err := httpx.QueryInt(c, "page", 1)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	limit, err := httpx.QueryInt(c, "limit", 0)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	activeOnly := true
	if raw := c.Query("active"); raw != "" {
		if activeOnly, err = strconv.ParseBool(raw); err != nil {
			h.responder.RespondError(c, errkind.Invalid(err))
			return
		}
	}
	result, err := h.service.ListSubscribers(c.Request.Context(), activeOnly, page, limit)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromSubscriberPage(result))
}
