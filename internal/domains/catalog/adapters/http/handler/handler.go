package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	service   catalogports.Service
	responder *apierrors.ChainedResponder
}

func New(service catalogports.Service, responder *apierrors.ChainedResponder) *Handler {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Handler{service: service, responder: responder}
}

// RegisterRoutes mounts the product routes under api.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, mw *auth.Middleware) {
	products := api.Group("/products")
	products.GET("", mw.Optional(), h.ListProducts)
	products.GET("/categories", h.Categories)
	products.GET("/tags", h.Tags)
	products.GET("/slug/:slug", h.GetProductBySlug)
	products.GET("/:id", h.GetProduct)

	admin := products.Group("", mw.Required(), mw.RequireAdmin())
	admin.POST("", h.CreateProduct)
	admin.PUT("/:id", h.UpdateProduct)
	admin.DELETE("/:id", h.DeleteProduct)
	admin.PUT("/:id/stock", h.AdjustStock)
}

// ListProducts handles GET /api/products.
func (h *Handler) ListProducts(c *gin.Context) {
	query, err := listQuery(c)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	// Admins may page through soft-deleted products explicitly.
	if principal, ok := auth.PrincipalFrom(c); ok && principal.IsAdmin() {
		query.Filter.IncludeInactive = c.Query("includeInactive") == "true"
	}
	page, err := h.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProductPage(page))
}

// GetProduct handles GET /api/products/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

// GetProductBySlug handles GET /api/products/slug/:slug.
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.service.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

// Categories handles GET /api/products/categories.
func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": nonNil(categories)})
}

// Tags handles GET /api/products/tags.
func (h *Handler) Tags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": nonNil(tags)})
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var payload mapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), mapper.ToProductInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": mapper.FromDomainProduct(product),
	})
}

// UpdateProduct handles PUT /api/products/:id.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var payload mapper.ProductPatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), mapper.ToProductPatch(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": mapper.FromDomainProduct(product),
	})
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AdjustStock handles PUT /api/products/:id/stock.
func (h *Handler) AdjustStock(c *gin.Context) {
	var payload mapper.StockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.RespondError(c, errkind.Invalid(err))
		return
	}
	product, err := h.service.AdjustStock(c.Request.Context(), c.Param("id"), *payload.Quantity)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
		"product": mapper.FromDomainProduct(product),
	})
}

func listQuery(c *gin.Context) (types.ListProductsQuery, error) {
	var query types.ListProductsQuery
	var err error
	if query.Page, err = httpx.QueryInt(c, "page", 1); err != nil {
		return query, err
	}
	if query.Limit, err = httpx.QueryInt(c, "limit", 0); err != nil {
		return query, err
	}
	if query.Filter.MinPrice, err = httpx.QueryDecimal(c, "minPrice"); err != nil {
		return query, err
	}
	if query.Filter.MaxPrice, err = httpx.QueryDecimal(c, "maxPrice"); err != nil {
		return query, err
	}
	query.Filter.Category = c.Query("category")
	query.Filter.Tags = httpx.QueryList(c, "tags")
	query.Filter.Search = c.Query("search")
	query.Filter.Sort = sortFromQuery(c)
	return query, nil
}

// sortFromQuery accepts sort=price_asc style values and the sortBy/sortOrder pair.
func sortFromQuery(c *gin.Context) types.SortOrder {
	if raw := c.Query("sort"); raw != "" {
		return types.ParseSortOrder(raw)
	}
	desc := !strings.EqualFold(c.DefaultQuery("sortOrder", "desc"), "asc")
	switch c.Query("sortBy") {
	case "price":
		if desc {
			return types.SortPriceDesc
		}
		return types.SortPriceAsc
	case "averageRating", "rating":
		return types.SortRating
	case "name":
		return types.SortName
	default:
		return types.SortNewest
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
