package types

import "github.com/shopspring/decimal"

type ProductSales struct {
	ProductID string
	Name      string
	Units     int64
	Revenue   decimal.Decimal
}

type Dashboard struct {
	TotalUsers            int64
	TotalProducts         int64
	TotalOrders           int64
	TotalRevenue          decimal.Decimal
	OrdersByStatus        map[string]int64
	RecentOrders          int64
	TopProducts           []ProductSales
	NewsletterSubscribers int64
	ActiveSubscriptions   int64
}

type DailySales struct {
	Date    string
	Revenue decimal.Decimal
	Orders  int64
}

type CategorySales struct {
	Category string
	Revenue  decimal.Decimal
	Units    int64
}

type SalesAnalytics struct {
	Days                int
	DailySales          []DailySales
	CategoryPerformance []CategorySales
}

type CustomerSpend struct {
	UserID     string
	Name       string
	Email      string
	TotalSpent decimal.Decimal
	Orders     int64
}

type CustomerAnalytics struct {
	NewCustomers    int64
	TopCustomers    []CustomerSpend
	RepeatCustomers int64
	// RetentionRate is the percentage of users with two or more orders.
	RetentionRate decimal.Decimal
}
