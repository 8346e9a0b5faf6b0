package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// TransactionRepository defines the interface for sale transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error)
	Update(ctx context.Context, tx *entity.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, cashierID uuid.UUID, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	ListWithCursor(ctx context.Context, cashierID uuid.UUID, params *TransactionCursorFilterParams) ([]entity.Transaction, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error
	GetDue(ctx context.Context, cashierID uuid.UUID, params *pagination.PaginationParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination       *pagination.PaginationParams
	Search           string
	Status           *enum.TransactionStatus
	PaymentMethod    *enum.PaymentMethod
	CustomerID       *uuid.UUID
	StartDate        *time.Time
	EndDate          *time.Time
	SortBy           string
	SortOrder        string
	SkipCashierScope bool // If true, returns all transactions (for admins)
}

// TransactionCursorFilterParams contains cursor-based filtering for transaction queries
type TransactionCursorFilterParams struct {
	Cursor           *pagination.CursorParams
	Search           string
	Status           *enum.TransactionStatus
	PaymentMethod    *enum.PaymentMethod
	CustomerID       *uuid.UUID
	StartDate        *time.Time
	EndDate          *time.Time
	SkipCashierScope bool
}

// TransactionItemRepository defines the interface for transaction line item operations
type TransactionItemRepository interface {
	Create(ctx context.Context, item *entity.TransactionItem) error
	CreateBatch(ctx context.Context, items []entity.TransactionItem) error
	GetByTransactionID(ctx context.Context, txID uuid.UUID) ([]entity.TransactionItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTransactionID(ctx context.Context, txID uuid.UUID) error
}
