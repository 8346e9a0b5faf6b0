package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/checkout"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/internal/metrics"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// CheckoutService drives the register workflow: it owns checkout sessions
// and turns a finished session into a persisted transaction. All cart math
// lives in the checkout package; this service only loads, mutates, and
// saves sessions around it.
type CheckoutService struct {
	sessionRepo  repository.CheckoutSessionRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	txItemRepo   repository.TransactionItemRepository
	settings     *SettingsService
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessionRepo repository.CheckoutSessionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	txRepo repository.TransactionRepository,
	txItemRepo repository.TransactionItemRepository,
	settings *SettingsService,
) *CheckoutService {
	return &CheckoutService{
		sessionRepo:  sessionRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txRepo:       txRepo,
		txItemRepo:   txItemRepo,
		settings:     settings,
	}
}

// OpenSession starts a fresh checkout session for the cashier.
func (s *CheckoutService) OpenSession(ctx context.Context, cashierID uuid.UUID) (*checkout.Session, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	session := checkout.NewSession(tenantID, cashierID)
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.CheckoutSessionsOpened.Inc()
	return session, nil
}

// GetSession retrieves a checkout session owned by the cashier.
func (s *CheckoutService) GetSession(ctx context.Context, cashierID, sessionID uuid.UUID) (*checkout.Session, error) {
	return s.loadSession(ctx, cashierID, sessionID)
}

// ListSessions returns all open sessions for the cashier. A cashier who
// closed the register mid-sale picks the cart back up from here.
func (s *CheckoutService) ListSessions(ctx context.Context, cashierID uuid.UUID) ([]*checkout.Session, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	return s.sessionRepo.ListByCashier(ctx, tenantID, cashierID)
}

// AbandonSession discards a session without creating a transaction.
func (s *CheckoutService) AbandonSession(ctx context.Context, cashierID, sessionID uuid.UUID) error {
	session, err := s.loadSession(ctx, cashierID, sessionID)
	if err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, session.TenantID, session.ID)
}

// AddItem adds one unit of the product to the session's cart. Adding the
// same product again increments its existing line.
func (s *CheckoutService) AddItem(ctx context.Context, cashierID, sessionID, productID uuid.UUID) (*checkout.Session, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Cart.AddItem(*product)
		return nil
	})
}

// AddItemBySKU adds a product by SKU, the path taken by barcode scanners.
func (s *CheckoutService) AddItemBySKU(ctx context.Context, cashierID, sessionID uuid.UUID, sku string) (*checkout.Session, error) {
	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Cart.AddItem(*product)
		return nil
	})
}

// UpdateQuantity sets the cart quantity for a product. Zero removes the line.
func (s *CheckoutService) UpdateQuantity(ctx context.Context, cashierID, sessionID, productID uuid.UUID, quantity int) (*checkout.Session, error) {
	if quantity < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity cannot be negative"},
		})
	}
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Cart.UpdateQuantity(productID, quantity)
		return nil
	})
}

// RemoveItem removes a product's line from the cart.
func (s *CheckoutService) RemoveItem(ctx context.Context, cashierID, sessionID, productID uuid.UUID) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Cart.RemoveItem(productID)
		return nil
	})
}

// ClearCart empties the session's cart, keeping the session itself.
func (s *CheckoutService) ClearCart(ctx context.Context, cashierID, sessionID uuid.UUID) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Cart.Clear()
		return nil
	})
}

// Advance moves the wizard one step forward.
func (s *CheckoutService) Advance(ctx context.Context, cashierID, sessionID uuid.UUID) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		return session.Advance()
	})
}

// Back moves the wizard one step backward, keeping all accumulated state.
func (s *CheckoutService) Back(ctx context.Context, cashierID, sessionID uuid.UUID) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		return session.Back()
	})
}

// Reset returns the session to a clean product-selection state.
func (s *CheckoutService) Reset(ctx context.Context, cashierID, sessionID uuid.UUID) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Reset()
		return nil
	})
}

// SetCustomer attaches a customer to the sale, or clears it when nil.
func (s *CheckoutService) SetCustomer(ctx context.Context, cashierID, sessionID uuid.UUID, customerID *uuid.UUID) (*checkout.Session, error) {
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.CustomerID = customerID
		return nil
	})
}

// SetPaymentMethod records how the sale will be paid.
func (s *CheckoutService) SetPaymentMethod(ctx context.Context, cashierID, sessionID uuid.UUID, method enum.PaymentMethod) (*checkout.Session, error) {
	if !method.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_method", Message: "Payment method must be cash, card or digital"},
		})
	}
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.PaymentMethod = method
		return nil
	})
}

// SetTendered stores the cashier's raw amount-tendered input. It is kept
// verbatim and only parsed at submission.
func (s *CheckoutService) SetTendered(ctx context.Context, cashierID, sessionID uuid.UUID, tendered string) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.Tendered = tendered
		return nil
	})
}

// SetSearchTerm stores the product search filter typed at the register.
func (s *CheckoutService) SetSearchTerm(ctx context.Context, cashierID, sessionID uuid.UUID, term string) (*checkout.Session, error) {
	return s.mutate(ctx, cashierID, sessionID, func(session *checkout.Session) error {
		session.SearchTerm = term
		return nil
	})
}

// SessionTotals is the computed money view of a session's cart.
type SessionTotals struct {
	TotalItems int     `json:"total_items"`
	SubTotal   float64 `json:"sub_total"`
	TaxRate    float64 `json:"tax_rate"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}

// Totals computes the running totals for a session using the store's
// configured tax rate.
func (s *CheckoutService) Totals(ctx context.Context, cashierID, sessionID uuid.UUID) (*SessionTotals, error) {
	session, err := s.loadSession(ctx, cashierID, sessionID)
	if err != nil {
		return nil, err
	}

	rate := s.settings.GetTaxRate(ctx)
	return &SessionTotals{
		TotalItems: session.Cart.TotalUnits(),
		SubTotal:   session.Cart.Subtotal(),
		TaxRate:    rate,
		Tax:        session.Cart.Tax(rate),
		Total:      session.Cart.Total(rate),
	}, nil
}

// Submit finalizes the session: it locks the session against double
// submission, atomically decrements stock, writes the transaction with its
// line items, and deletes the session. Any failure after stock was taken
// restores it and releases the session for another attempt.
func (s *CheckoutService) Submit(ctx context.Context, cashierID, sessionID uuid.UUID) (*entity.Transaction, error) {
	session, err := s.loadSession(ctx, cashierID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.BeginSubmit(); err != nil {
		return nil, apperror.NewUnprocessableError(err.Error())
	}
	// Persist the latch so a racing submit through another request sees it.
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		s.releaseSubmit(ctx, session)
		return nil, err
	}

	draft, err := session.BuildDraft(settings.TaxRate)
	if err != nil {
		s.releaseSubmit(ctx, session)
		return nil, apperror.NewUnprocessableError(err.Error())
	}

	tx, err := s.persistDraft(ctx, session, draft, settings)
	if err != nil {
		s.releaseSubmit(ctx, session)
		return nil, err
	}

	// The sale is recorded; the session has served its purpose.
	if err := s.sessionRepo.Delete(ctx, session.TenantID, session.ID); err != nil {
		// The transaction exists, so only log-level concern; the session
		// will age out through its TTL.
		metrics.TransactionsFailed.WithLabelValues("session_cleanup").Inc()
	}

	metrics.TransactionsCreated.WithLabelValues(string(tx.PaymentMethod), tx.Status.String()).Inc()
	return tx, nil
}

// persistDraft turns a draft into a stored transaction with line items,
// taking stock atomically first.
func (s *CheckoutService) persistDraft(ctx context.Context, session *checkout.Session, draft *checkout.Draft, settings *entity.StoreSettings) (*entity.Transaction, error) {
	// Batch fetch products for name reporting and price snapshots.
	productIDs := make([]uuid.UUID, len(draft.Items))
	for i, item := range draft.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	stockDecrements := make(map[uuid.UUID]int, len(draft.Items))
	txItems := make([]entity.TransactionItem, 0, len(draft.Items))
	for _, item := range draft.Items {
		if _, exists := productMap[item.ProductID]; !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		unitPriceCents := entity.CentsFromDecimal(item.UnitPrice)
		txItems = append(txItems, entity.TransactionItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPriceCents,
			Total:     unitPriceCents * int64(item.Quantity),
		})
		stockDecrements[item.ProductID] = item.Quantity
	}

	// Atomic stock decrement: if any product is short the whole batch
	// rolls back and the short IDs come back for reporting.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		metrics.TransactionsFailed.WithLabelValues("insufficient_stock").Inc()
		return nil, apperror.NewAppError(409, fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	status := enum.TransactionStatusCompleted
	if !draft.Payment.Sufficient {
		status = enum.TransactionStatusDue
	}

	tx := &entity.Transaction{
		TenantID:      session.TenantID,
		CashierID:     session.CashierID,
		CustomerID:    draft.CustomerID,
		InvoiceNo:     utils.GenerateInvoiceNo(settings.InvoicePrefix),
		PaymentMethod: draft.PaymentMethod,
		Status:        status,
		TotalItems:    session.Cart.TotalUnits(),
		SubTotal:      entity.CentsFromDecimal(draft.SubTotal),
		Tax:           entity.CentsFromDecimal(draft.Tax),
		Total:         entity.CentsFromDecimal(draft.Total),
		Discount:      entity.CentsFromDecimal(draft.Discount),
		AmountPaid:    entity.CentsFromDecimal(draft.AmountPaid),
		Change:        entity.CentsFromDecimal(draft.Payment.Change),
		Due:           entity.CentsFromDecimal(draft.Payment.Due),
		TxDate:        time.Now(),
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		// Stock was already decremented; put it back.
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		metrics.TransactionsFailed.WithLabelValues("persist").Inc()
		return nil, err
	}

	for i := range txItems {
		txItems[i].TransactionID = tx.ID
	}
	if err := s.txItemRepo.CreateBatch(ctx, txItems); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		_ = s.txRepo.Delete(ctx, tx.ID)
		metrics.TransactionsFailed.WithLabelValues("persist").Inc()
		return nil, err
	}

	return s.txRepo.GetWithItems(ctx, tx.ID)
}

// releaseSubmit drops the submission latch after a failed attempt so the
// cashier can fix the problem and retry.
func (s *CheckoutService) releaseSubmit(ctx context.Context, session *checkout.Session) {
	session.EndSubmit()
	_ = s.sessionRepo.Save(ctx, session)
}

// mutate loads a session, applies fn, and saves the result. Errors from fn
// leave the stored session untouched.
func (s *CheckoutService) mutate(ctx context.Context, cashierID, sessionID uuid.UUID, fn func(*checkout.Session) error) (*checkout.Session, error) {
	session, err := s.loadSession(ctx, cashierID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, apperror.NewUnprocessableError(err.Error())
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// loadSession fetches a session within the tenant and checks cashier
// ownership. Sessions are private to the register that opened them.
func (s *CheckoutService) loadSession(ctx context.Context, cashierID, sessionID uuid.UUID) (*checkout.Session, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	session, err := s.sessionRepo.Get(ctx, tenantID, sessionID)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return nil, apperror.NewNotFoundError("Checkout session")
		}
		return nil, err
	}
	if session.CashierID != cashierID {
		return nil, apperror.ErrForbidden
	}
	return session, nil
}
