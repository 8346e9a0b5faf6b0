package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Customer").
		First(&tx, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&tx, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) List(ctx context.Context, cashierID uuid.UUID, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txs []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(TenantScope(ctx))
	if !params.SkipCashierScope && cashierID != uuid.Nil {
		query = query.Where("cashier_id = ?", cashierID)
	}

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("tx_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("tx_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&txs).Error

	return txs, total, err
}

// ListWithCursor returns transactions using cursor-based pagination
func (r *transactionRepository) ListWithCursor(ctx context.Context, cashierID uuid.UUID, params *domainRepo.TransactionCursorFilterParams) ([]entity.Transaction, error) {
	var txs []entity.Transaction

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(TenantScope(ctx))
	if !params.SkipCashierScope && cashierID != uuid.Nil {
		query = query.Where("cashier_id = ?", cashierID)
	}

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("tx_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("tx_date <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&txs).Error

	return txs, err
}

func (r *transactionRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		First(&tx, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *transactionRepository) GetDue(ctx context.Context, cashierID uuid.UUID, params *pagination.PaginationParams) ([]entity.Transaction, int64, error) {
	var txs []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(TenantScope(ctx)).
		Where("due > 0")
	if cashierID != uuid.Nil {
		query = query.Where("cashier_id = ?", cashierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&txs).Error

	return txs, total, err
}

type transactionItemRepository struct {
	db *gorm.DB
}

// NewTransactionItemRepository creates a new transaction item repository
func NewTransactionItemRepository(db *gorm.DB) domainRepo.TransactionItemRepository {
	return &transactionItemRepository{db: db}
}

func (r *transactionItemRepository) Create(ctx context.Context, item *entity.TransactionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *transactionItemRepository) CreateBatch(ctx context.Context, items []entity.TransactionItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *transactionItemRepository) GetByTransactionID(ctx context.Context, txID uuid.UUID) ([]entity.TransactionItem, error) {
	var items []entity.TransactionItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("transaction_id = ?", txID).
		Find(&items).Error
	return items, err
}

func (r *transactionItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.TransactionItem{}, "id = ?", id).Error
}

func (r *transactionItemRepository) DeleteByTransactionID(ctx context.Context, txID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.TransactionItem{}, "transaction_id = ?", txID).Error
}
