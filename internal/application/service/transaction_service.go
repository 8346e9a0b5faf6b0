package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// TransactionService handles operations on recorded sales. The checkout
// service creates transactions; everything after creation goes through here.
type TransactionService struct {
	txRepo      repository.TransactionRepository
	txItemRepo  repository.TransactionItemRepository
	productRepo repository.ProductRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txRepo repository.TransactionRepository,
	txItemRepo repository.TransactionItemRepository,
	productRepo repository.ProductRepository,
) *TransactionService {
	return &TransactionService{
		txRepo:      txRepo,
		txItemRepo:  txItemRepo,
		productRepo: productRepo,
	}
}

// GetTransaction retrieves a transaction with its line items
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return tx, nil
}

// GetByInvoiceNo retrieves a transaction by its invoice number. This backs
// the receipt lookup endpoint reached from the QR code on printed receipts.
func (s *TransactionService) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return s.txRepo.GetWithItems(ctx, tx.ID)
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, cashierID uuid.UUID, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	txs, total, err := s.txRepo.List(ctx, cashierID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txs, pag), nil
}

// ListTransactionsWithCursor lists transactions with cursor-based pagination
func (s *TransactionService) ListTransactionsWithCursor(ctx context.Context, cashierID uuid.UUID, params *repository.TransactionCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Transaction], error) {
	txs, err := s.txRepo.ListWithCursor(ctx, cashierID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(txs, params.Cursor.Limit,
		func(t entity.Transaction) string { return t.ID.String() },
		func(t entity.Transaction) time.Time { return t.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// CancelTransaction cancels a transaction and restores the sold stock
func (s *TransactionService) CancelTransaction(ctx context.Context, cashierID, txID uuid.UUID, skipCashierCheck bool) error {
	tx, err := s.txRepo.GetWithItems(ctx, txID)
	if err != nil {
		return err
	}
	if tx == nil {
		return apperror.NewNotFoundError("Transaction")
	}

	if !skipCashierCheck && tx.CashierID != cashierID {
		return apperror.ErrForbidden
	}

	if tx.Status == enum.TransactionStatusCancelled {
		return apperror.NewAppError(400, "Transaction is already cancelled")
	}

	// Build increment map for stock restoration
	stockIncrements := make(map[uuid.UUID]int)
	for _, item := range tx.Items {
		stockIncrements[item.ProductID] = item.Quantity
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
		return err
	}

	return s.txRepo.UpdateStatus(ctx, txID, enum.TransactionStatusCancelled)
}

// GetDueTransactions returns transactions with outstanding dues
func (s *TransactionService) GetDueTransactions(ctx context.Context, cashierID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	txs, total, err := s.txRepo.GetDue(ctx, cashierID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(txs, pag), nil
}

// PayDue records a payment towards a transaction's due amount
func (s *TransactionService) PayDue(ctx context.Context, cashierID, txID uuid.UUID, amount float64, skipCashierCheck bool) (*entity.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "Payment amount must be positive"},
		})
	}

	tx, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	if !skipCashierCheck && tx.CashierID != cashierID {
		return nil, apperror.ErrForbidden
	}

	if tx.Status != enum.TransactionStatusDue {
		return nil, apperror.NewAppError(400, "Transaction has no outstanding due")
	}

	amountCents := entity.CentsFromDecimal(amount)
	tx.AmountPaid += amountCents
	tx.Due -= amountCents

	if tx.Due <= 0 {
		// Overpayment of a due balance becomes change, not negative due.
		tx.Change += -tx.Due
		tx.Due = 0
		tx.Status = enum.TransactionStatusCompleted
	}

	if err := s.txRepo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
