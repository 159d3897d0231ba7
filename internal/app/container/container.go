// Package container builds every bounded context once, on PostgreSQL when a
// connection is available and on the in-memory adapters otherwise.
package container

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	admincatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/adapters/catalog"
	adminusers "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/adapters/users"
	adminapp "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/application"
	adminports "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/ports"
	cartcatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/application"
	cartports "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	newslettermemory "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/memory"
	newsletterpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/persistence/postgres"
	newsletterapp "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/application"
	newsletterports "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/ports"
	ordercart "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/cart"
	ordercatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	reviewcatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/catalog"
	reviewmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/memory"
	reviewobs "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/observability"
	reviewpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/persistence/postgres"
	reviewusers "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/users"
	reviewapp "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/application"
	reviewports "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	subcatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/catalog"
	submemory "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/memory"
	subpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/persistence/postgres"
	subapp "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/application"
	subports "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/ports"
	usercatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/catalog"
	usermemory "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/token"
	userapp "github.com/Apurer/foxnuts-farm-api/internal/domains/users/application"
	userports "github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
)

// Settings are the knobs the contexts read at construction.
type Settings struct {
	JWTSecret           string
	JWTTTL              time.Duration
	OrderPricePolicy    ordertypes.PricePolicy
	OrderStatusPolicy   ordertypes.StatusPolicy
	DefaultShippingCost *decimal.Decimal
}

// Telemetry hands loggers, tracers and meters to the decorators. The zero
// value leaves them on their no-op defaults.
type Telemetry struct {
	Logger *slog.Logger
	Tracer func(name string) trace.Tracer
	Meter  func(name string) metric.Meter
}

// Container holds the wired services.
type Container struct {
	Catalog       catalogports.Service
	Users         userports.Service
	Cart          cartports.Service
	Orders        orderports.Service
	OrderSteps    orderports.PlacementSteps
	OrderRepo     orderports.Repository
	Reviews       reviewports.Service
	Newsletter    newsletterports.Service
	Subscriptions subports.Service
	Admin         adminports.Service
}

// orderStore is an orders repository that also serves admin reporting.
type orderStore interface {
	orderports.Repository
	orderports.Reporting
}

type repositories struct {
	catalog       catalogports.Store
	users         userports.Repository
	sessions      userports.SessionStore
	cart          cartports.Repository
	orders        orderStore
	idempotency   orderports.IdempotencyStore
	reviews       reviewports.Repository
	newsletter    newsletterports.Repository
	subscriptions subports.Repository
}

func postgresRepositories(db *gorm.DB) repositories {
	return repositories{
		catalog:       catalogpostgres.NewRepository(db),
		users:         userpostgres.NewRepository(db),
		sessions:      userpostgres.NewSessionStore(db),
		cart:          cartpostgres.NewRepository(db),
		orders:        orderpostgres.NewRepository(db),
		idempotency:   orderpostgres.NewIdempotencyStore(db),
		reviews:       reviewpostgres.NewRepository(db),
		newsletter:    newsletterpostgres.NewRepository(db),
		subscriptions: subpostgres.NewRepository(db),
	}
}

func memoryRepositories() repositories {
	return repositories{
		catalog:       catalogmemory.NewRepository(),
		users:         usermemory.NewRepository(),
		sessions:      usermemory.NewSessionStore(),
		cart:          cartmemory.NewRepository(),
		orders:        ordermemory.NewRepository(),
		idempotency:   ordermemory.NewIdempotencyStore(),
		reviews:       reviewmemory.NewRepository(),
		newsletter:    newslettermemory.NewRepository(),
		subscriptions: submemory.NewRepository(),
	}
}

// Build wires every context. A nil db selects the in-memory adapters.
func Build(db *gorm.DB, settings Settings, tel Telemetry) (*Container, error) {
	repos := memoryRepositories()
	if db != nil {
		repos = postgresRepositories(db)
	}
	logger := tel.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var catalog catalogports.Service = catalogapp.NewService(repos.catalog)
	catalog = catalogobs.New(catalog, catalogObsOptions(tel)...)

	tokens, err := token.New(settings.JWTSecret, settings.JWTTTL)
	if err != nil {
		return nil, err
	}
	var users userports.Service = userapp.NewService(
		repos.users, repos.sessions, tokens, usercatalog.NewProducts(catalog),
		userapp.WithLogger(logger),
	)
	users = userobs.New(users, userObsOptions(tel)...)

	cart := cartapp.NewService(repos.cart, cartcatalog.NewProducts(catalog))

	orderOpts := []orderapp.Option{
		orderapp.WithIdempotencyStore(repos.idempotency),
		orderapp.WithLogger(logger),
	}
	if settings.OrderPricePolicy != "" {
		orderOpts = append(orderOpts, orderapp.WithPricePolicy(settings.OrderPricePolicy))
	}
	if settings.OrderStatusPolicy != "" {
		orderOpts = append(orderOpts, orderapp.WithStatusPolicy(settings.OrderStatusPolicy))
	}
	if settings.DefaultShippingCost != nil {
		orderOpts = append(orderOpts, orderapp.WithDefaultShipping(*settings.DefaultShippingCost))
	}
	coreOrders := orderapp.NewService(repos.orders, ordercatalog.NewInventory(catalog), ordercart.NewClearer(cart), orderOpts...)
	orders := orderobs.New(coreOrders, orderObsOptions(tel)...)

	var reviews reviewports.Service = reviewapp.NewService(
		repos.reviews, reviewcatalog.NewRatings(catalog),
		reviewapp.WithAuthors(reviewusers.NewAuthors(users)),
		reviewapp.WithLogger(logger),
	)
	reviews = reviewobs.New(reviews, reviewObsOptions(tel)...)

	newsletter := newsletterapp.NewService(repos.newsletter)
	subscriptions := subapp.NewService(repos.subscriptions, subcatalog.NewProducts(catalog), subapp.WithLogger(logger))

	admin := adminapp.NewService(adminapp.Sources{
		Orders:        repos.orders,
		Catalog:       admincatalog.NewProducts(catalog),
		Customers:     adminusers.NewCustomers(users),
		Newsletter:    newsletter,
		Subscriptions: subscriptions,
	}, adminapp.WithLogger(logger))

	return &Container{
		Catalog:       catalog,
		Users:         users,
		Cart:          cart,
		Orders:        orders,
		OrderSteps:    coreOrders,
		OrderRepo:     repos.orders,
		Reviews:       reviews,
		Newsletter:    newsletter,
		Subscriptions: subscriptions,
		Admin:         admin,
	}, nil
}

func catalogObsOptions(tel Telemetry) []catalogobs.Option {
	var opts []catalogobs.Option
	if tel.Logger != nil {
		opts = append(opts, catalogobs.WithLogger(tel.Logger))
	}
	if tel.Tracer != nil {
		opts = append(opts, catalogobs.WithTracer(tel.Tracer("internal.catalog.application")))
	}
	if tel.Meter != nil {
		opts = append(opts, catalogobs.WithMeter(tel.Meter("internal.catalog.application")))
	}
	return opts
}

func userObsOptions(tel Telemetry) []userobs.Option {
	var opts []userobs.Option
	if tel.Logger != nil {
		opts = append(opts, userobs.WithLogger(tel.Logger))
	}
	if tel.Tracer != nil {
		opts = append(opts, userobs.WithTracer(tel.Tracer("internal.users.application")))
	}
	if tel.Meter != nil {
		opts = append(opts, userobs.WithMeter(tel.Meter("internal.users.application")))
	}
	return opts
}

func orderObsOptions(tel Telemetry) []orderobs.Option {
	var opts []orderobs.Option
	if tel.Logger != nil {
		opts = append(opts, orderobs.WithLogger(tel.Logger))
	}
	if tel.Tracer != nil {
		opts = append(opts, orderobs.WithTracer(tel.Tracer("internal.orders.application")))
	}
	if tel.Meter != nil {
		opts = append(opts, orderobs.WithMeter(tel.Meter("internal.orders.application")))
	}
	return opts
}

func reviewObsOptions(tel Telemetry) []reviewobs.Option {
	var opts []reviewobs.Option
	if tel.Logger != nil {
		opts = append(opts, reviewobs.WithLogger(tel.Logger))
	}
	if tel.Tracer != nil {
		opts = append(opts, reviewobs.WithTracer(tel.Tracer("internal.reviews.application")))
	}
	if tel.Meter != nil {
		opts = append(opts, reviewobs.WithMeter(tel.Meter("internal.reviews.application")))
	}
	return opts
}
