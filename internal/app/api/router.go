package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/foxnuts-farm-api/internal/app/container"
	adminhandler "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/adapters/http/handler"
	carthandler "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/http/handler"
	cataloghandler "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/http/handler"
	newsletterhandler "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/http/handler"
	orderhandler "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/http/handler"
	orderports "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	reviewhandler "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/http/handler"
	subhandler "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/http/handler"
	userhandler "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/http/handler"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
)

// NewRouter mounts every context under /api. workflows may be nil, in which
// case checkout runs directly on the orders service.
func NewRouter(serviceName string, c *container.Container, workflows orderports.WorkflowOrchestrator, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(requestLogger(logger))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})

	responder := apierrors.NewDomainResponder("").WithLogger(logger)
	mw := auth.NewMiddleware(c.Users, responder)
	api := router.Group("/api")

	userhandler.New(c.Users, responder).RegisterRoutes(api, mw)
	cataloghandler.New(c.Catalog, responder).RegisterRoutes(api, mw)
	carthandler.New(c.Cart, responder).RegisterRoutes(api, mw)
	orderhandler.New(c.Orders, workflows, responder).RegisterRoutes(api, mw)
	reviewhandler.New(c.Reviews, responder).RegisterRoutes(api, mw)
	newsletterhandler.New(c.Newsletter, responder).RegisterRoutes(api, mw)
	subhandler.New(c.Subscriptions, responder).RegisterRoutes(api, mw)
	adminhandler.New(c.Admin, responder).RegisterRoutes(api, mw)
	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		level := slog.LevelInfo
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx.Request.Context(), level, "http request",
			slog.String("http.method", ctx.Request.Method),
			slog.String("http.route", ctx.FullPath()),
			slog.Int("http.status", ctx.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
