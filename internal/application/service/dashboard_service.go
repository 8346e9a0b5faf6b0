package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// DashboardService provides store-level statistics. Counts come from the
// scoped repositories; revenue and ranking queries go through the analytics
// repository so aggregation happens in the database.
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	txRepo        repository.TransactionRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		txRepo:        txRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers    int64                `json:"total_customers"`
	TotalProducts     int64                `json:"total_products"`
	TotalTransactions int64                `json:"total_transactions"`
	TotalRevenue      float64              `json:"total_revenue"`
	MonthlyRevenue    float64              `json:"monthly_revenue"`
	OutstandingDue    float64              `json:"outstanding_due"`
	LowStockCount     int64                `json:"low_stock_count"`
	DailySalesData    []DailySalesPoint    `json:"daily_sales_data"`
	CategorySalesData []CategorySalesPoint `json:"category_sales_data"`
	TopProducts       []TopProductPoint    `json:"top_products"`
	TopCustomers      []TopCustomerPoint   `json:"top_customers"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// CategorySalesPoint represents sales by category
type CategorySalesPoint struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// TopProductPoint represents a top-selling product
type TopProductPoint struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// TopCustomerPoint represents a top-spending customer
type TopCustomerPoint struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	Name         string    `json:"name"`
	TotalSpent   float64   `json:"total_spent"`
	Transactions int       `json:"transactions"`
}

// GetDashboardStats returns dashboard statistics for the tenant
func (s *DashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	// Counts only, so one row per query is enough
	countParams := pagination.DefaultPagination()
	countParams.PerPage = 1

	_, customerCount, err := s.customerRepo.List(ctx, userID, countParams, "", true)
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	_, productCount, err := s.productRepo.List(ctx, userID, &repository.ProductFilterParams{
		Pagination:     countParams,
		SkipUserFilter: true,
	})
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	_, txCount, err := s.txRepo.List(ctx, userID, &repository.TransactionFilterParams{
		Pagination:       countParams,
		SkipCashierScope: true,
	})
	if err != nil {
		return nil, err
	}
	stats.TotalTransactions = txCount

	lowStock, err := s.productRepo.GetLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	if stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.analyticsRepo.GetMonthlyRevenue(ctx); err != nil {
		return nil, err
	}
	if stats.OutstandingDue, err = s.analyticsRepo.GetOutstandingDue(ctx); err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:         d.Date.Format("Jan 02"),
			Revenue:      d.Revenue,
			Transactions: d.TransactionCount,
		})
	}

	byCategory, err := s.analyticsRepo.GetSalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	stats.CategorySalesData = make([]CategorySalesPoint, 0, len(byCategory))
	for _, c := range byCategory {
		stats.CategorySalesData = append(stats.CategorySalesData, CategorySalesPoint{
			Category:   c.CategoryName,
			Amount:     c.TotalSales,
			Percentage: c.Percentage,
		})
	}

	topProducts, err := s.analyticsRepo.GetTopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = make([]TopProductPoint, 0, len(topProducts))
	for _, p := range topProducts {
		stats.TopProducts = append(stats.TopProducts, TopProductPoint{
			ProductID:    p.ProductID,
			Name:         p.ProductName,
			SKU:          p.ProductSKU,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue,
		})
	}

	topCustomers, err := s.analyticsRepo.GetTopCustomers(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopCustomers = make([]TopCustomerPoint, 0, len(topCustomers))
	for _, c := range topCustomers {
		stats.TopCustomers = append(stats.TopCustomers, TopCustomerPoint{
			CustomerID:   c.CustomerID,
			Name:         c.CustomerName,
			TotalSpent:   c.TotalSpent,
			Transactions: c.TransactionCount,
		})
	}

	return stats, nil
}
