package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
)

// Handler exposes the caller's cart over HTTP.
type Handler struct {
	service   cartports.Service
	responder *apierrors.ChainedResponder
}

func New(service cartports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	cart := api.Group("/cart", mw.Required())
	cart.GET("", h.Get)
	cart.POST("/add", h.Add)
	cart.PUT("/update", h.Update)
	cart.DELETE("/remove/:productId", h.Remove)
	cart.DELETE("/clear", h.Clear)
}

// Get handles GET /api/cart.
func (h *Handler) Get(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	cart, err := h.service.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainCart(cart))
}

// Add handles POST /api/cart/add.
func (h *Handler) Add(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.ItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	cart, err := h.service.AddItem(c.Request.Context(), principal.UserID, payload.ProductID, *payload.Quantity)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": mapper.FromDomainCart(cart)})
}

// Update handles PUT /api/cart/update.
func (h *Handler) Update(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.ItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	cart, err := h.service.UpdateItem(c.Request.Context(), principal.UserID, payload.ProductID, *payload.Quantity)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": mapper.FromDomainCart(cart)})
}

// Remove handles DELETE /api/cart/remove/:productId.
func (h *Handler) Remove(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	cart, err := h.service.RemoveItem(c.Request.Context(), principal.UserID, c.Param("productId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": mapper.FromDomainCart(cart)})
}

// Clear handles DELETE /api/cart/clear.
func (h *Handler) Clear(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	if err := h.service.Clear(c.Request.Context(), principal.UserID); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "cart": mapper.FromDomainCart(nil)})
}
