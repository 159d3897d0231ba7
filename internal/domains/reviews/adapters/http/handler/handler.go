package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/http/mapper"
	reviewports "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

// Handler exposes product reviews over HTTP.
type Handler struct {
	service   reviewports.Service
	responder *apierrors.ChainedResponder
}

func New(service reviewports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	reviews := api.Group("/reviews")
	reviews.GET("/product/:productId", mw.Optional(), h.ListProductReviews)
	reviews.POST("/:id/helpful", h.MarkHelpful)

	author := reviews.Group("", mw.Required())
	author.GET("/user", h.ListUserReviews)
	author.POST("", h.CreateReview)
	author.PUT("/:id", h.UpdateReview)
	author.DELETE("/:id", h.DeleteReview)
}

// ListProductReviews handles GET /api/reviews/product/:productId.
func (h *Handler) ListProductReviews(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	result, err := h.service.ListProductReviews(c.Request.Context(), c.Param("productId"), page, limit)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromReviewPage(result))
}

// ListUserReviews handles GET /api/reviews/user.
func (h *Handler) ListUserReviews(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	page, limit, err := pageParams(c)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	result, err := h.service.ListUserReviews(c.Request.Context(), principal.UserID, page, limit)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromReviewPage(result))
}

// CreateReview handles POST /api/reviews.
func (h *Handler) CreateReview(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.CreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	review, err := h.service.CreateReview(c.Request.Context(), principal.UserID, mapper.ToReviewInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  mapper.FromDomainReview(review),
	})
}

// UpdateReview handles PUT /api/reviews/:id.
func (h *Handler) UpdateReview(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	var payload mapper.UpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	review, err := h.service.UpdateReview(c.Request.Context(), c.Param("id"), principal.UserID, mapper.ToReviewPatch(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  mapper.FromDomainReview(review),
	})
}

// DeleteReview handles DELETE /api/reviews/:id.
func (h *Handler) DeleteReview(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	if err := h.service.DeleteReview(c.Request.Context(), c.Param("id"), principal.UserID); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// MarkHelpful handles POST /api/reviews/:id/helpful.
func (h *Handler) MarkHelpful(c *gin.Context) {
	review, err := h.service.MarkHelpful(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Review marked as helpful",
		"review":  mapper.FromDomainReview(review),
	})
}

func pageParams(c *gin.Context) (int, int, error) {
	page, err := httpx.QueryInt(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := httpx.QueryInt(c, "limit", 0)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
