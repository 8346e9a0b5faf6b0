package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// TransactionHandler handles completed-sale HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// List handles listing transactions (supports both page-based and cursor-based pagination)
func (h *TransactionHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isAdmin := IsAdmin(c)

	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if cursor := c.Query("cursor"); cursor != "" || filter.Limit > 0 {
		h.listWithCursor(c, *userID, &filter, isAdmin)
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:           filter.Search,
		SortBy:           filter.SortBy,
		SortOrder:        filter.SortOrder,
		SkipCashierScope: isAdmin,
	}
	applyTransactionFilters(params, &filter)

	result, err := h.transactionService.ListTransactions(adminScope(c, isAdmin), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

func (h *TransactionHandler) listWithCursor(c *gin.Context, userID uuid.UUID, filter *request.TransactionFilterRequest, isAdmin bool) {
	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	params := &repository.TransactionCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search:           filter.Search,
		SkipCashierScope: isAdmin,
	}
	cursorFilters := &repository.TransactionFilterParams{}
	applyTransactionFilters(cursorFilters, filter)
	params.Status = cursorFilters.Status
	params.PaymentMethod = cursorFilters.PaymentMethod
	params.StartDate = cursorFilters.StartDate
	params.EndDate = cursorFilters.EndDate

	result, err := h.transactionService.ListTransactionsWithCursor(adminScope(c, isAdmin), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Transactions retrieved successfully", result)
}

// applyTransactionFilters parses optional status, method and date filters
func applyTransactionFilters(params *repository.TransactionFilterParams, filter *request.TransactionFilterRequest) {
	if filter.Status != "" {
		var status enum.TransactionStatus
		if err := status.UnmarshalJSON([]byte(`"` + filter.Status + `"`)); err == nil {
			params.Status = &status
		}
	}
	if filter.Method != "" {
		method := enum.PaymentMethod(filter.Method)
		if method.Valid() {
			params.PaymentMethod = &method
		}
	}
	if filter.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", filter.DateFrom); err == nil {
			params.StartDate = &t
		}
	}
	if filter.DateTo != "" {
		if t, err := time.Parse("2006-01-02", filter.DateTo); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &end
		}
	}
}

// Get handles getting a single transaction with its line items
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", tx)
}

// Cancel handles cancelling a transaction and restocking its items
func (h *TransactionHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.CancelTransaction(c.Request.Context(), *userID, id, IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction cancelled successfully", nil)
}

// GetDue handles listing transactions with an outstanding balance
func (h *TransactionHandler) GetDue(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.transactionService.GetDueTransactions(c.Request.Context(), *userID, paginationFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Due transactions retrieved successfully", result)
}

// PayDue handles recording a follow-up payment against a due transaction
func (h *TransactionHandler) PayDue(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.PayDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tx, err := h.transactionService.PayDue(c.Request.Context(), *userID, id, req.Amount, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", tx)
}
