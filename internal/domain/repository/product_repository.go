package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *ProductCursorFilterParams) ([]entity.Product, error)
	GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	// AtomicDecrementStock decrements stock only if enough remains.
	AtomicDecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// AtomicDecrementBatch decrements stock for several products in one
	// transaction; if any product is short the whole batch rolls back and
	// the short product IDs are returned.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error)
	// AtomicIncrementBatch restores stock (cancellations, corrections).
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	CategoryID     *uuid.UUID
	LowStock       bool
	SortBy         string
	SortOrder      string
	SkipUserFilter bool
}

// ProductCursorFilterParams contains cursor-based filtering for product queries
type ProductCursorFilterParams struct {
	Cursor         *pagination.CursorParams
	Search         string
	CategoryID     *uuid.UUID
	LowStock       bool
	SkipUserFilter bool
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Category, int64, error)
}
