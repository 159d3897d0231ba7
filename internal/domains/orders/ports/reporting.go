package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
)

// ProductSales aggregates units and revenue per product.
type ProductSales struct {
	ProductID string
	Name      string
	Units     int64
	Revenue   decimal.Decimal
}

// DailySales aggregates paid orders per UTC day (YYYY-MM-DD).
type DailySales struct {
	Date    string
	Revenue decimal.Decimal
	Orders  int64
}

// CustomerSpend aggregates paid orders per user.
type CustomerSpend struct {
	UserID     string
	TotalSpent decimal.Decimal
	Orders     int64
}

// Reporting is the read-only aggregate view used by admin reporting.
type Reporting interface {
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
	PaidRevenue(ctx context.Context) (decimal.Decimal, error)
	// TopProducts ranks products by units across all orders.
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	// PaidProductSales aggregates line items of paid orders created since.
	PaidProductSales(ctx context.Context, since time.Time) ([]ProductSales, error)
	DailyPaidSales(ctx context.Context, since time.Time) ([]DailySales, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerSpend, error)
	// CountRepeatCustomers counts users with at least two orders.
	CountRepeatCustomers(ctx context.Context) (int64, error)
}
