package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
)

var _ ports.Reporting = (*Repository)(nil)

func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).Count(&n).Error
	return n, err
}

func (r *Repository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *Repository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []struct {
		OrderStatus string
		Count       int64
	}
	err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.OrderStatus)] = row.Count
	}
	return counts, nil
}

func (r *Repository) PaidRevenue(ctx context.Context) (decimal.Decimal, error) {
	if err := r.ensureDB(); err != nil {
		return decimal.Zero, err
	}
	var row struct{ Revenue decimal.Decimal }
	err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("payment_status = ?", string(domain.PaymentPaid)).
		Scan(&row).Error
	return row.Revenue, err
}

type productSalesRow struct {
	ProductID string
	Name      string
	Units     int64
	Revenue   decimal.Decimal
}

func (r *Repository) TopProducts(ctx context.Context, limit int) ([]ports.ProductSales, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []productSalesRow
	query := r.db.WithContext(ctx).
		Model(&orderItemRecord{}).
		Select("product_id, MAX(name) AS name, SUM(quantity) AS units, SUM(price * quantity) AS revenue").
		Group("product_id").
		Order("units DESC, product_id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toProductSales(rows), nil
}

func (r *Repository) PaidProductSales(ctx context.Context, since time.Time) ([]ports.ProductSales, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []productSalesRow
	err := r.db.WithContext(ctx).
		Table("order_items AS i").
		Joins("JOIN orders AS o ON o.id = i.order_id").
		Select("i.product_id, MAX(i.name) AS name, SUM(i.quantity) AS units, SUM(i.price * i.quantity) AS revenue").
		Where("o.payment_status = ? AND o.created_at >= ?", string(domain.PaymentPaid), since).
		Group("i.product_id").
		Order("revenue DESC, i.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toProductSales(rows), nil
}

func (r *Repository) DailyPaidSales(ctx context.Context, since time.Time) ([]ports.DailySales, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []struct {
		Day     string
		Revenue decimal.Decimal
		Orders  int64
	}
	err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(total) AS revenue, COUNT(*) AS orders").
		Where("payment_status = ? AND created_at >= ?", string(domain.PaymentPaid), since).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.DailySales, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.DailySales{Date: row.Day, Revenue: row.Revenue, Orders: row.Orders})
	}
	return out, nil
}

func (r *Repository) TopCustomers(ctx context.Context, limit int) ([]ports.CustomerSpend, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []struct {
		UserID     string
		TotalSpent decimal.Decimal
		Orders     int64
	}
	query := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("user_id, SUM(total) AS total_spent, COUNT(*) AS orders").
		Where("payment_status = ?", string(domain.PaymentPaid)).
		Group("user_id").
		Order("total_spent DESC, user_id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.CustomerSpend, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.CustomerSpend{UserID: row.UserID, TotalSpent: row.TotalSpent, Orders: row.Orders})
	}
	return out, nil
}

func (r *Repository) CountRepeatCustomers(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM (SELECT user_id FROM orders GROUP BY user_id HAVING COUNT(*) >= 2) AS repeat_customers").
		Scan(&n).Error
	return n, err
}

func toProductSales(rows []productSalesRow) []ports.ProductSales {
	out := make([]ports.ProductSales, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.ProductSales(row))
	}
	return out
}
