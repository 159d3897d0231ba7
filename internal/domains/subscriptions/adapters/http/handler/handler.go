package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	subports "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
)

type Handler struct {
	service   subports.Service
	responder *apierrors.ChainedResponder
}

func New(service subports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

// RegisterRoutes mounts the subscription routes; every route needs a signed-in user.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	subs := api.Group("/subscriptions", mw.Required())
	subs.GET("", h.List)
	subs.POST("", h.Create)
	subs.PUT("/:id", h.Update)
	subs.DELETE("/:id", h.Cancel)
	subs.POST("/:id/pause", h.Pause)
	subs.POST("/:id/resume", h.Resume)
}

// List handles GET /api/subscriptions.
func (h *Handler) List(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	views, err := h.service.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromViews(views))
}

// Create handles POST /api/subscriptions.
func (h *Handler) Create(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.CreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	sub, err := h.service.Create(c.Request.Context(), mapper.ToCreateInput(principal.UserID, payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Subscription created successfully",
		"subscription": mapper.FromDomainSubscription(sub),
	})
}

// Update handles PUT /api/subscriptions/:id.
func (h *Handler) Update(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.UpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	sub, err := h.service.Update(c.Request.Context(), c.Param("id"), principal.UserID, mapper.ToPatch(payload))
	h.respond(c, sub, err, "Subscription updated successfully")
}

// Pause handles POST /api/subscriptions/:id/pause.
func (h *Handler) Pause(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	sub, err := h.service.Pause(c.Request.Context(), c.Param("id"), principal.UserID)
	h.respond(c, sub, err, "Subscription paused successfully")
}

// Resume handles POST /api/subscriptions/:id/resume.
func (h *Handler) Resume(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	sub, err := h.service.Resume(c.Request.Context(), c.Param("id"), principal.UserID)
	h.respond(c, sub, err, "Subscription resumed successfully")
}

// Cancel handles DELETE /api/subscriptions/:id.
func (h *Handler) Cancel(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	sub, err := h.service.Cancel(c.Request.Context(), c.Param("id"), principal.UserID)
	h.respond(c, sub, err, "Subscription cancelled successfully")
}

func (h *Handler) respond(c *gin.Context, sub *domain.Subscription, err error, message string) {
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"subscription": mapper.FromDomainSubscription(sub),
	})
}
