package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/application/types"
)

type Service interface {
	Dashboard(ctx context.Context) (*types.Dashboard, error)
	SalesAnalytics(ctx context.Context, days int) (*types.SalesAnalytics, error)
	CustomerAnalytics(ctx context.Context) (*types.CustomerAnalytics, error)
}
