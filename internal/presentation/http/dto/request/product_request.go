package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name" binding:"required,min=2,max=255"`
	SKU        string     `json:"sku" binding:"omitempty,max=100"`
	Stock      int        `json:"stock" binding:"min=0"`
	StockAlert int        `json:"stock_alert" binding:"min=0"`
	Price      float64    `json:"price" binding:"min=0"`
	Notes      *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       *string    `json:"name" binding:"omitempty,min=2,max=255"`
	SKU        *string    `json:"sku" binding:"omitempty,min=1,max=100"`
	Stock      *int       `json:"stock" binding:"omitempty,min=0"`
	StockAlert *int       `json:"stock_alert" binding:"omitempty,min=0"`
	Price      *float64   `json:"price" binding:"omitempty,min=0"`
	Notes      *string    `json:"notes"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Limit      int    `form:"limit"` // For cursor-based pagination
}
