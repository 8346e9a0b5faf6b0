package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// tenantID pulls the tenant from context. Raw SQL bypasses GORM scopes, so
// every query here must filter on it explicitly.
func (r *analyticsRepository) tenantID(ctx context.Context) uuid.UUID {
	id, _ := GetTenantID(ctx)
	return id
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			p.sku as product_sku,
			COALESCE(SUM(ti.quantity), 0) as quantity_sold,
			COALESCE(SUM(ti.total), 0) / 100.0 as revenue
		FROM transaction_items ti
		JOIN products p ON p.id = ti.product_id
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.status = 0 AND t.tenant_id = ?
		GROUP BY p.id, p.name, p.sku
		ORDER BY revenue DESC
		LIMIT ?
	`, r.tenantID(ctx), limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByCategory(ctx context.Context) ([]domainRepo.CategorySalesResult, error) {
	var results []domainRepo.CategorySalesResult

	// First get total sales for percentage calculation
	var totalSales float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(ti.total), 0) / 100.0
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.status = 0 AND t.tenant_id = ?
	`, r.tenantID(ctx)).Scan(&totalSales).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(c.id, '00000000-0000-0000-0000-000000000000') as category_id,
			COALESCE(c.name, 'Uncategorized') as category_name,
			COALESCE(SUM(ti.total), 0) / 100.0 as total_sales,
			COUNT(DISTINCT t.id) as transaction_count
		FROM transaction_items ti
		JOIN products p ON p.id = ti.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.status = 0 AND t.tenant_id = ?
		GROUP BY c.id, c.name
		ORDER BY total_sales DESC
	`, r.tenantID(ctx)).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	// Calculate percentages
	for i := range results {
		if totalSales > 0 {
			results[i].Percentage = (results[i].TotalSales / totalSales) * 100
		}
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			COALESCE(SUM(t.total), 0) / 100.0 as total_spent,
			COUNT(t.id) as transaction_count
		FROM transactions t
		JOIN customers c ON c.id = t.customer_id
		WHERE t.status = 0 AND t.customer_id IS NOT NULL AND t.tenant_id = ?
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, r.tenantID(ctx), limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()
	tenantID := r.tenantID(ctx)

	// Generate dates for the last N days and get sales for each
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Revenue sql.NullFloat64
			Count   int
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(total), 0) / 100.0 as revenue, COUNT(id) as count
			FROM transactions
			WHERE status = 0 AND tenant_id = ?
			AND tx_date >= ? AND tx_date < ?
		`, tenantID, startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		rev := 0.0
		if row.Revenue.Valid {
			rev = row.Revenue.Float64
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:             startOfDay,
			Revenue:          rev,
			TransactionCount: row.Count,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM transactions
		WHERE status = 0 AND tenant_id = ?
	`, r.tenantID(ctx)).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM transactions
		WHERE status = 0 AND tx_date >= ? AND tenant_id = ?
	`, startOfMonth, r.tenantID(ctx)).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetOutstandingDue(ctx context.Context) (float64, error) {
	var due float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(due), 0) / 100.0
		FROM transactions
		WHERE due > 0 AND status = 1 AND tenant_id = ?
	`, r.tenantID(ctx)).Scan(&due).Error

	return due, err
}
