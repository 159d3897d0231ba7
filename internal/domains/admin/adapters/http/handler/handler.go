package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/adapters/http/mapper"
	adminports "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

type Handler struct {
	service   adminports.Service
	responder *apierrors.ChainedResponder
}

func New(service adminports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	admin := api.Group("/admin", mw.Required(), mw.RequireAdmin())
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/analytics/sales", h.SalesAnalytics)
	admin.GET("/analytics/customers", h.CustomerAnalytics)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDashboard(d))
}

// SalesAnalytics handles GET /api/admin/analytics/sales.
func (h *Handler) SalesAnalytics(c *gin.Context) {
	days, err := httpx.QueryInt(c, "days", 0)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	report, err := h.service.SalesAnalytics(c.Request.Context(), days)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromSalesAnalytics(report))
}

// CustomerAnalytics handles GET /api/admin/analytics/customers.
func (h *Handler) CustomerAnalytics(c *gin.Context) {
	report, err := h.service.CustomerAnalytics(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromCustomerAnalytics(report))
}
