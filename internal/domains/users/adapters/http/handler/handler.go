package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

// Handler exposes authentication, profiles, wishlists and user
// administration over HTTP.
type Handler struct {
	service   userports.Service
	responder *apierrors.ChainedResponder
}

func New(service userports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	account := authGroup.Group("", mw.Required())
	account.POST("/logout", h.Logout)
	account.GET("/me", h.Me)
	account.PUT("/me", h.UpdateProfile)
	account.POST("/change-password", h.ChangePassword)
	account.POST("/addresses", h.AddAddress)
	account.PUT("/addresses/:addressId", h.UpdateAddress)
	account.DELETE("/addresses/:addressId", h.RemoveAddress)

	wishlist := api.Group("/wishlist", mw.Required())
	wishlist.GET("", h.Wishlist)
	wishlist.POST("/add/:productId", h.AddToWishlist)
	wishlist.DELETE("/remove/:productId", h.RemoveFromWishlist)
	wishlist.GET("/check/:productId", h.CheckWishlist)

	admin := api.Group("/admin/users", mw.Required(), mw.RequireAdmin())
	admin.GET("", h.ListUsers)
	admin.PUT("/:id/role", h.UpdateRole)
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var payload mapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	result, err := h.service.Register(c.Request.Context(), mapper.ToRegisterInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromAuthResult("User registered successfully", result))
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var payload mapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	result, err := h.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromAuthResult("Login successful", result))
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	if err := h.service.Logout(c.Request.Context(), principal.TokenID); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	user, err := h.service.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": mapper.FromDomainUser(user)})
}

// UpdateProfile handles PUT /api/auth/me.
func (h *Handler) UpdateProfile(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.ProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), principal.UserID, mapper.ToProfilePatch(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    mapper.FromDomainUser(user),
	})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.PasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), principal.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// AddAddress handles POST /api/auth/addresses.
func (h *Handler) AddAddress(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.AddressRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	user, err := h.service.AddAddress(c.Request.Context(), principal.UserID, mapper.ToDomainAddress(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Address added successfully",
		"user":    mapper.FromDomainUser(user),
	})
}

// UpdateAddress handles PUT /api/auth/addresses/:addressId.
func (h *Handler) UpdateAddress(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.AddressRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	user, err := h.service.UpdateAddress(c.Request.Context(), principal.UserID, c.Param("addressId"), mapper.ToDomainAddress(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"user":    mapper.FromDomainUser(user),
	})
}

// RemoveAddress handles DELETE /api/auth/addresses/:addressId.
func (h *Handler) RemoveAddress(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	user, err := h.service.RemoveAddress(c.Request.Context(), principal.UserID, c.Param("addressId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
		"user":    mapper.FromDomainUser(user),
	})
}

// Wishlist handles GET /api/wishlist.
func (h *Handler) Wishlist(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	products, err := h.service.Wishlist(c.Request.Context(), principal.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": mapper.FromWishlist(products)})
}

// AddToWishlist handles POST /api/wishlist/add/:productId.
func (h *Handler) AddToWishlist(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	ids, err := h.service.AddToWishlist(c.Request.Context(), principal.UserID, c.Param("productId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist", "wishlist": ids})
}

// RemoveFromWishlist handles DELETE /api/wishlist/remove/:productId.
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	ids, err := h.service.RemoveFromWishlist(c.Request.Context(), principal.UserID, c.Param("productId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist", "wishlist": ids})
}

// CheckWishlist handles GET /api/wishlist/check/:productId.
func (h *Handler) CheckWishlist(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	in, err := h.service.InWishlist(c.Request.Context(), principal.UserID, c.Param("productId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inWishlist": in})
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
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
	result, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromUserPage(result))
}

// UpdateRole handles PUT /api/admin/users/:id/role.
func (h *Handler) UpdateRole(c *gin.Context) {
	var payload mapper.RoleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	user, err := h.service.UpdateRole(c.Request.Context(), c.Param("id"), payload.Role)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    mapper.FromDomainUser(user),
	})
}
