package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/pagination"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Name       string
	SKU        string
	Stock      int
	StockAlert int
	Price      float64
	Notes      *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.Price < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "price", Message: "Price cannot be negative"},
		})
	}

	// Auto-generate SKU if not provided
	sku := input.SKU
	if sku == "" {
		sku = utils.GenerateSKU()
	}

	existing, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product SKU already exists")
	}

	// Validate category belongs to the tenant
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		TenantID:   tenantID,
		UserID:     input.UserID,
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Slug:       utils.Slugify(input.Name),
		SKU:        sku,
		Stock:      input.Stock,
		StockAlert: input.StockAlert,
		Notes:      input.Notes,
	}
	product.SetPriceFromDecimal(input.Price)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListProductsWithCursor lists products with cursor-based pagination
func (s *ProductService) ListProductsWithCursor(ctx context.Context, userID uuid.UUID, params *repository.ProductCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Product], error) {
	products, err := s.productRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(products, params.Cursor.Limit,
		func(p entity.Product) string { return p.ID.String() },
		func(p entity.Product) time.Time { return p.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	UserID        uuid.UUID
	ProductSlug   string
	SkipUserCheck bool // If true (admin), skip ownership check
	CategoryID    *uuid.UUID
	Name          *string
	SKU           *string
	Stock         *int
	StockAlert    *int
	Price         *float64
	Notes         *string
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if !input.SkipUserCheck && product.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	// Check if new SKU is unique
	if input.SKU != nil && *input.SKU != product.SKU {
		existing, err := s.productRepo.GetBySKU(ctx, *input.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Product SKU already exists")
		}
		product.SKU = *input.SKU
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "price", Message: "Price cannot be negative"},
			})
		}
		product.SetPriceFromDecimal(*input.Price)
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// AttachImage records the uploaded image URL on a product. The upload
// itself happens in the handler against object storage.
func (s *ProductService) AttachImage(ctx context.Context, slug string, imageURL string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	product.Image = &imageURL
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, userID uuid.UUID, slug string, skipOwnerCheck bool) error {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if !skipOwnerCheck && product.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns products at or below their alert threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, userID)
}

// AdjustStock sets the absolute stock level for a product
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, stock int) (*entity.Product, error) {
	if stock < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "stock", Message: "Stock cannot be negative"},
		})
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.UpdateStock(ctx, id, stock); err != nil {
		return nil, err
	}
	product.Stock = stock
	return product, nil
}

// ImportProductRow represents a single row from the import file
type ImportProductRow struct {
	Name         string
	SKU          string
	Stock        int
	StockAlert   int
	Price        float64
	Notes        string
	CategoryName string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows
func (s *ProductService) ImportProducts(ctx context.Context, userID uuid.UUID, rows []ImportProductRow) (*ImportResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// Load categories for name-based matching
	categoryMap := make(map[string]*uuid.UUID)
	categories, _, _ := s.categoryRepo.List(ctx, uuid.Nil, &pagination.PaginationParams{Page: 1, PerPage: 1000}, "", true)
	for i := range categories {
		categoryMap[strings.ToLower(categories[i].Name)] = &categories[i].ID
	}

	// Track SKUs seen in this import batch to detect duplicates within the file
	seenSKUs := make(map[string]int) // sku -> row number (1-indexed)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // +2 because row 1 is the header, data starts at row 2

		if strings.TrimSpace(row.Name) == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}
		if row.Price < 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "price", Message: "Price cannot be negative"})
			continue
		}
		if row.Stock < 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "stock", Message: "Stock cannot be negative"})
			continue
		}

		// Auto-generate SKU if empty
		sku := strings.TrimSpace(row.SKU)
		if sku == "" {
			sku = utils.GenerateSKU()
		}

		if prevRow, exists := seenSKUs[sku]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "sku",
				Message: fmt.Sprintf("Duplicate SKU '%s' (same as row %d)", sku, prevRow),
			})
			continue
		}

		existingProduct, err := s.productRepo.GetBySKU(ctx, sku)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "sku", Message: "Error checking SKU: " + err.Error()})
			continue
		}
		if existingProduct != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "sku",
				Message: fmt.Sprintf("Product SKU '%s' already exists", sku),
			})
			continue
		}

		seenSKUs[sku] = rowNum

		// Slug gets a uniqueness suffix so repeated names do not collide
		slug := utils.Slugify(row.Name) + "-" + strings.ToLower(uuid.New().String()[:8])

		var categoryID *uuid.UUID
		if row.CategoryName != "" {
			if id, ok := categoryMap[strings.ToLower(strings.TrimSpace(row.CategoryName))]; ok {
				categoryID = id
			}
		}

		product := entity.Product{
			TenantID:   tenantID,
			UserID:     userID,
			CategoryID: categoryID,
			Name:       strings.TrimSpace(row.Name),
			Slug:       slug,
			SKU:        sku,
			Stock:      row.Stock,
			StockAlert: row.StockAlert,
		}
		product.SetPriceFromDecimal(row.Price)

		if row.Notes != "" {
			notes := row.Notes
			product.Notes = &notes
		}

		validProducts = append(validProducts, product)
	}

	// Batch create valid products
	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewAppError(500, "Failed to import products: "+err.Error())
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}
