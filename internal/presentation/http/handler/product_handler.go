package handler

import (
	"context"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/internal/presentation/http/middleware"
	"github.com/tillpoint/pos-api/pkg/pagination"
	"github.com/tillpoint/pos-api/pkg/storage"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
	objectStorage  *storage.ObjectStorage
	uploadMaxSize  int64
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService, objectStorage *storage.ObjectStorage, uploadMaxSize int64) *ProductHandler {
	if uploadMaxSize <= 0 {
		uploadMaxSize = 5 << 20
	}
	return &ProductHandler{
		productService: productService,
		objectStorage:  objectStorage,
		uploadMaxSize:  uploadMaxSize,
	}
}

// List handles listing products (supports both page-based and cursor-based pagination)
func (h *ProductHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, isAdmin)
		return
	}

	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:         filter.Search,
		LowStock:       filter.LowStock,
		SortBy:         filter.SortBy,
		SortOrder:      filter.SortOrder,
		SkipUserFilter: isAdmin,
	}

	if filter.CategoryID != "" {
		catID, err := uuid.Parse(filter.CategoryID)
		if err == nil {
			params.CategoryID = &catID
		}
	}

	result, err := h.productService.ListProducts(adminScope(c, isAdmin), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// listWithCursor handles listing products with cursor-based pagination
func (h *ProductHandler) listWithCursor(c *gin.Context, userID uuid.UUID, isAdmin bool) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &repository.ProductCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search:         filter.Search,
		LowStock:       filter.LowStock,
		SkipUserFilter: isAdmin,
	}

	if filter.CategoryID != "" {
		catID, err := uuid.Parse(filter.CategoryID)
		if err == nil {
			params.CategoryID = &catID
		}
	}

	result, err := h.productService.ListProductsWithCursor(adminScope(c, isAdmin), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		UserID:     *userID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		SKU:        req.SKU,
		Stock:      req.Stock,
		StockAlert: req.StockAlert,
		Price:      req.Price,
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Product slug is required")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Product slug is required")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		UserID:        *userID,
		ProductSlug:   slug,
		SkipUserCheck: isAdmin,
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		SKU:           req.SKU,
		Stock:         req.Stock,
		StockAlert:    req.StockAlert,
		Price:         req.Price,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product by slug
func (h *ProductHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Product slug is required")
		return
	}

	isAdmin := IsAdmin(c)

	if err := h.productService.DeleteProduct(c.Request.Context(), *userID, slug, isAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetLowStock handles getting low stock products
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	products, err := h.productService.GetLowStockProducts(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// AdjustStock handles a manual stock count correction
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Stock)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", product)
}

var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadImage stores a product image in object storage and attaches its
// public URL to the product.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.objectStorage == nil {
		response.BadRequest(c, "Image uploads are not configured")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Product slug is required")
		return
	}

	tenantID, ok := middleware.GetTenantID(c)
	if !ok || tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}

	if fileHeader.Size > h.uploadMaxSize {
		response.BadRequest(c, "Image exceeds the maximum upload size")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageTypes[ext] {
		response.BadRequest(c, "Unsupported image type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key, err := h.objectStorage.Upload(c.Request.Context(), tenantID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		response.InternalServerError(c, "Failed to store image")
		return
	}

	product, err := h.productService.AttachImage(c.Request.Context(), slug, h.objectStorage.PublicURL(key))
	if err != nil {
		// Orphaned object, remove it
		_ = h.objectStorage.Delete(c.Request.Context(), key)
		response.Error(c, err)
		return
	}

	response.OK(c, "Product image uploaded successfully", product)
}

// adminScope widens the tenant scope for admins, optionally narrowing back
// to one tenant via the tenant_id query parameter.
func adminScope(c *gin.Context, isAdmin bool) context.Context {
	ctx := c.Request.Context()
	if !isAdmin {
		return ctx
	}
	ctx = infraRepo.WithSkipTenantScope(ctx, true)
	if tenantIDStr := c.Query("tenant_id"); tenantIDStr != "" {
		if tenantID, err := uuid.Parse(tenantIDStr); err == nil {
			ctx = infraRepo.WithTenant(ctx, tenantID)
			ctx = infraRepo.WithSkipTenantScope(ctx, false)
		}
	}
	return ctx
}

// importColumns maps accepted CSV header names to row fields.
var importColumns = map[string]string{
	"name":        "name",
	"sku":         "sku",
	"stock":       "stock",
	"quantity":    "stock",
	"stock_alert": "stock_alert",
	"price":       "price",
	"notes":       "notes",
	"category":    "category",
}

// ImportProducts handles bulk product import from a CSV file
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "CSV file is required (field name: file)")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		response.BadRequest(c, "Only .csv files are supported")
		return
	}
	if h.uploadMaxSize > 0 && header.Size > h.uploadMaxSize {
		response.BadRequest(c, "File is too large")
		return
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		response.BadRequest(c, "Invalid CSV file: "+err.Error())
		return
	}
	if len(records) < 2 {
		response.BadRequest(c, "CSV file must contain a header row and at least one data row")
		return
	}

	// Resolve column positions from the header row
	columns := make(map[string]int)
	for i, name := range records[0] {
		if field, ok := importColumns[strings.ToLower(strings.TrimSpace(name))]; ok {
			columns[field] = i
		}
	}
	if _, ok := columns["name"]; !ok {
		response.BadRequest(c, "CSV file must contain a 'name' column")
		return
	}

	cell := func(record []string, field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]service.ImportProductRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := service.ImportProductRow{
			Name:         cell(record, "name"),
			SKU:          cell(record, "sku"),
			Notes:        cell(record, "notes"),
			CategoryName: cell(record, "category"),
		}
		if v := cell(record, "stock"); v != "" {
			row.Stock, _ = strconv.Atoi(v)
		}
		if v := cell(record, "stock_alert"); v != "" {
			row.StockAlert, _ = strconv.Atoi(v)
		}
		if v := cell(record, "price"); v != "" {
			row.Price, _ = strconv.ParseFloat(v, 64)
		}
		rows = append(rows, row)
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), *userID, rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import completed", result)
}
