package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

// IdempotencyHeader deduplicates checkout submissions.
const IdempotencyHeader = "Idempotency-Key"

// Handler exposes orders over HTTP.
type Handler struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// New builds the handler. workflows may be nil, in which case checkout
// runs directly on the service.
func New(service orderports.Service, workflows orderports.WorkflowOrchestrator, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, workflows: workflows, responder: responder}
}

// RegisterRoutes mounts the order routes under api.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	orders := api.Group("/orders")
	orders.GET("/track/:orderNumber", h.TrackOrder)

	customer := orders.Group("", mw.Required())
	customer.POST("", h.PlaceOrder)
	customer.GET("", h.ListMyOrders)

	admin := orders.Group("", mw.Required(), mw.RequireAdmin())
	admin.GET("/admin", h.ListOrders)
	admin.PUT("/:id/status", h.UpdateStatus)
	admin.PUT("/:id/tracking", h.AddTracking)
	admin.PUT("/:id/payment", h.UpdatePayment)

	customer.GET("/:id", h.GetOrder)
	customer.POST("/:id/cancel", h.CancelOrder)

	api.GET("/admin/orders", mw.Required(), mw.RequireAdmin(), h.ListOrders)
}

// PlaceOrder handles POST /api/orders.
func (h *Handler) PlaceOrder(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	input := mapper.ToPlaceOrderInput(principal.UserID, strings.TrimSpace(c.GetHeader(IdempotencyHeader)), payload)

	var (
		order *orderdomain.Order
		err   error
	)
	if h.workflows != nil {
		order, err = h.workflows.PlaceOrder(c.Request.Context(), input)
	} else {
		order, err = h.service.PlaceOrder(c.Request.Context(), input)
	}
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   mapper.FromDomainOrder(order),
	})
}

// ListMyOrders handles GET /api/orders.
func (h *Handler) ListMyOrders(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
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
	result, err := h.service.ListUserOrders(c.Request.Context(), principal.UserID, page, limit)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderPage(result))
}

// ListOrders handles GET /api/admin/orders.
func (h *Handler) ListOrders(c *gin.Context) {
	query := types.ListOrdersQuery{Status: orderdomain.Status(c.Query("status"))}
	var err error
	if query.Page, err = httpx.QueryInt(c, "page", 1); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	if query.Limit, err = httpx.QueryInt(c, "limit", 0); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	result, err := h.service.ListOrders(c.Request.Context(), query)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderPage(result))
}

// GetOrder handles GET /api/orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	requester := types.Requester{UserID: principal.UserID, IsAdmin: principal.IsAdmin()}
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

// TrackOrder handles GET /api/orders/track/:orderNumber.
func (h *Handler) TrackOrder(c *gin.Context) {
	tracking, err := h.service.TrackOrder(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTracking(tracking))
}

// CancelOrder handles POST /api/orders/:id/cancel.
func (h *Handler) CancelOrder(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"), principal.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   mapper.FromDomainOrder(order),
	})
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var payload mapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	order, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), orderdomain.Status(payload.Status), payload.Note)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   mapper.FromDomainOrder(order),
	})
}

// AddTracking handles PUT /api/orders/:id/tracking.
func (h *Handler) AddTracking(c *gin.Context) {
	var payload mapper.TrackingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	order, err := h.service.AddTracking(c.Request.Context(), c.Param("id"), payload.TrackingNumber, payload.Carrier)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Tracking information added successfully",
		"order":   mapper.FromDomainOrder(order),
	})
}

// UpdatePayment handles PUT /api/orders/:id/payment.
func (h *Handler) UpdatePayment(c *gin.Context) {
	var payload mapper.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	order, err := h.service.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), orderdomain.PaymentStatus(payload.PaymentStatus))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated successfully",
		"order":   mapper.FromDomainOrder(order),
	})
}
