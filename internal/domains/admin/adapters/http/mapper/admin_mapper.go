package mapper

import (
	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	TotalSold int64   `json:"totalSold"`
	Revenue   float64 `json:"revenue"`
}

type Dashboard struct {
	TotalUsers            int64            `json:"totalUsers"`
	TotalProducts         int64            `json:"totalProducts"`
	TotalOrders           int64            `json:"totalOrders"`
	TotalRevenue          float64          `json:"totalRevenue"`
	OrdersByStatus        map[string]int64 `json:"ordersByStatus"`
	RecentOrders          int64            `json:"recentOrders"`
	TopProducts           []ProductSales   `json:"topProducts"`
	NewsletterSubscribers int64            `json:"newsletterSubscribers"`
	ActiveSubscriptions   int64            `json:"activeSubscriptions"`
}

type DailySales struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Units    int64   `json:"units"`
}

type SalesAnalytics struct {
	Days                int             `json:"days"`
	DailySales          []DailySales    `json:"dailySales"`
	CategoryPerformance []CategorySales `json:"categoryPerformance"`
}

type CustomerSpend struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	TotalSpent float64 `json:"totalSpent"`
	OrderCount int64   `json:"orderCount"`
}

type CustomerAnalytics struct {
	NewCustomers    int64           `json:"newCustomers"`
	TopCustomers    []CustomerSpend `json:"topCustomers"`
	RepeatCustomers int64           `json:"repeatCustomers"`
	RetentionRate   float64         `json:"retentionRate"`
}

func FromDashboard(d *types.Dashboard) Dashboard {
	out := Dashboard{
		TotalUsers:            d.TotalUsers,
		TotalProducts:         d.TotalProducts,
		TotalOrders:           d.TotalOrders,
		TotalRevenue:          httpx.Money(d.TotalRevenue),
		OrdersByStatus:        d.OrdersByStatus,
		RecentOrders:          d.RecentOrders,
		TopProducts:           make([]ProductSales, 0, len(d.TopProducts)),
		NewsletterSubscribers: d.NewsletterSubscribers,
		ActiveSubscriptions:   d.ActiveSubscriptions,
	}
	for _, p := range d.TopProducts {
		out.TopProducts = append(out.TopProducts, ProductSales{
			ProductID: p.ProductID,
			Name:      p.Name,
			TotalSold: p.Units,
			Revenue:   httpx.Money(p.Revenue),
		})
	}
	return out
}

func FromSalesAnalytics(s *types.SalesAnalytics) SalesAnalytics {
	out := SalesAnalytics{
		Days:                s.Days,
		DailySales:          make([]DailySales, 0, len(s.DailySales)),
		CategoryPerformance: make([]CategorySales, 0, len(s.CategoryPerformance)),
	}
	for _, d := range s.DailySales {
		out.DailySales = append(out.DailySales, DailySales{Date: d.Date, Revenue: httpx.Money(d.Revenue), Orders: d.Orders})
	}
	for _, c := range s.CategoryPerformance {
		out.CategoryPerformance = append(out.CategoryPerformance, CategorySales{Category: c.Category, Revenue: httpx.Money(c.Revenue), Units: c.Units})
	}
	return out
}

func FromCustomerAnalytics(c *types.CustomerAnalytics) CustomerAnalytics {
	out := CustomerAnalytics{
		NewCustomers:    c.NewCustomers,
		TopCustomers:    make([]CustomerSpend, 0, len(c.TopCustomers)),
		RepeatCustomers: c.RepeatCustomers,
		RetentionRate:   httpx.Money(c.RetentionRate),
	}
	for _, s := range c.TopCustomers {
		out.TopCustomers = append(out.TopCustomers, CustomerSpend{
			UserID:     s.UserID,
			Name:       s.Name,
			Email:      s.Email,
			TotalSpent: httpx.Money(s.TotalSpent),
			OrderCount: s.Orders,
		})
	}
	return out
}
