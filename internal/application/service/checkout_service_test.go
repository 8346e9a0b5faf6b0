package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/checkout"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
)

// Fakes embed the repository interfaces so only the methods the checkout
// path touches need stubbing; anything else panics loudly.

type fakeProductRepo struct {
	repository.ProductRepository
	products map[uuid.UUID]*entity.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, qty := range decrements {
		if f.products[id].Stock < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		f.products[id].Stock -= qty
	}
	return nil, nil
}

func (f *fakeProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, qty := range increments {
		f.products[id].Stock += qty
	}
	return nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[uuid.UUID]*entity.Customer
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

type fakeTransactionRepo struct {
	repository.TransactionRepository
	created    map[uuid.UUID]*entity.Transaction
	failCreate bool
}

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if f.failCreate {
		return apperror.ErrInternalServer
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	f.created[tx.ID] = tx
	return nil
}

func (f *fakeTransactionRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return f.created[id], nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.created, id)
	return nil
}

type fakeTransactionItemRepo struct {
	repository.TransactionItemRepository
	items []entity.TransactionItem
}

func (f *fakeTransactionItemRepo) CreateBatch(ctx context.Context, items []entity.TransactionItem) error {
	f.items = append(f.items, items...)
	return nil
}

type fakeSettingsRepo struct {
	repository.SettingsRepository
	settings *entity.StoreSettings
}

func (f *fakeSettingsRepo) GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.StoreSettings, error) {
	return f.settings, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s *entity.StoreSettings) error {
	f.settings = s
	return nil
}

type checkoutFixture struct {
	svc       *CheckoutService
	products  *fakeProductRepo
	txs       *fakeTransactionRepo
	txItems   *fakeTransactionItemRepo
	sessions  repository.CheckoutSessionRepository
	ctx       context.Context
	tenantID  uuid.UUID
	cashierID uuid.UUID
	coffee    *entity.Product
	bagel     *entity.Product
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	tenantID := uuid.New()
	cashierID := uuid.New()

	coffee := &entity.Product{ID: uuid.New(), TenantID: tenantID, Name: "Coffee", SKU: "SKU-COFFEE", Stock: 10}
	coffee.SetPriceFromDecimal(3.50)
	bagel := &entity.Product{ID: uuid.New(), TenantID: tenantID, Name: "Bagel", SKU: "SKU-BAGEL", Stock: 5}
	bagel.SetPriceFromDecimal(2.25)

	products := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{
		coffee.ID: coffee,
		bagel.ID:  bagel,
	}}
	txs := &fakeTransactionRepo{created: map[uuid.UUID]*entity.Transaction{}}
	txItems := &fakeTransactionItemRepo{}
	settings := &fakeSettingsRepo{settings: &entity.StoreSettings{
		TenantID:      tenantID,
		TaxRate:       0.08,
		InvoicePrefix: "INV-",
	}}
	sessions := infraRepo.NewMemorySessionStore(time.Hour)

	svc := NewCheckoutService(
		sessions,
		products,
		&fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{}},
		txs,
		txItems,
		NewSettingsService(settings, 0.08),
	)

	return &checkoutFixture{
		svc:       svc,
		products:  products,
		txs:       txs,
		txItems:   txItems,
		sessions:  sessions,
		ctx:       infraRepo.WithTenant(context.Background(), tenantID),
		tenantID:  tenantID,
		cashierID: cashierID,
		coffee:    coffee,
		bagel:     bagel,
	}
}

// walk a session to the payment step with the given cart contents
func (f *checkoutFixture) toPayment(t *testing.T, add map[uuid.UUID]int) *checkout.Session {
	t.Helper()
	session, err := f.svc.OpenSession(f.ctx, f.cashierID)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	for id, qty := range add {
		if _, err := f.svc.AddItem(f.ctx, f.cashierID, session.ID, id); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if qty > 1 {
			if _, err := f.svc.UpdateQuantity(f.ctx, f.cashierID, session.ID, id, qty); err != nil {
				t.Fatalf("UpdateQuantity: %v", err)
			}
		}
	}
	if _, err := f.svc.Advance(f.ctx, f.cashierID, session.ID); err != nil {
		t.Fatalf("Advance to review: %v", err)
	}
	if _, err := f.svc.Advance(f.ctx, f.cashierID, session.ID); err != nil {
		t.Fatalf("Advance to payment: %v", err)
	}
	session, err = f.svc.GetSession(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	return session
}

func TestSubmitHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.coffee.ID: 2, f.bagel.ID: 1})

	if _, err := f.svc.SetTendered(f.ctx, f.cashierID, session.ID, "20.00"); err != nil {
		t.Fatalf("SetTendered: %v", err)
	}

	tx, err := f.svc.Submit(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// 2x3.50 + 1x2.25 = 9.25; tax 8% = 0.74; total 9.99
	if tx.SubTotal != 925 {
		t.Errorf("SubTotal = %d cents, want 925", tx.SubTotal)
	}
	if tx.Tax != 74 {
		t.Errorf("Tax = %d cents, want 74", tx.Tax)
	}
	if tx.Total != 999 {
		t.Errorf("Total = %d cents, want 999", tx.Total)
	}
	if tx.AmountPaid != 2000 {
		t.Errorf("AmountPaid = %d cents, want 2000", tx.AmountPaid)
	}
	if tx.Change != 1001 {
		t.Errorf("Change = %d cents, want 1001", tx.Change)
	}
	if tx.Status != enum.TransactionStatusCompleted {
		t.Errorf("Status = %v, want Completed", tx.Status)
	}
	if !strings.HasPrefix(tx.InvoiceNo, "INV-") {
		t.Errorf("InvoiceNo = %q, want INV- prefix", tx.InvoiceNo)
	}
	if len(f.txItems.items) != 2 {
		t.Fatalf("created %d line items, want 2", len(f.txItems.items))
	}

	// Stock taken
	if f.products.products[f.coffee.ID].Stock != 8 {
		t.Errorf("coffee stock = %d, want 8", f.products.products[f.coffee.ID].Stock)
	}

	// Session removed after successful submission
	if _, err := f.svc.GetSession(f.ctx, f.cashierID, session.ID); err == nil {
		t.Error("session still retrievable after submit")
	}
}

func TestSubmitBlankTenderedPaysInFull(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.bagel.ID: 1})

	tx, err := f.svc.Submit(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tx.AmountPaid != tx.Total {
		t.Errorf("AmountPaid = %d, want total %d", tx.AmountPaid, tx.Total)
	}
	if tx.Change != 0 || tx.Due != 0 {
		t.Errorf("Change/Due = %d/%d, want 0/0", tx.Change, tx.Due)
	}
	if tx.Status != enum.TransactionStatusCompleted {
		t.Errorf("Status = %v, want Completed", tx.Status)
	}
}

func TestSubmitShortPaymentRecordsDue(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.coffee.ID: 2})

	if _, err := f.svc.SetTendered(f.ctx, f.cashierID, session.ID, "5.00"); err != nil {
		t.Fatalf("SetTendered: %v", err)
	}

	tx, err := f.svc.Submit(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tx.Status != enum.TransactionStatusDue {
		t.Errorf("Status = %v, want Due", tx.Status)
	}
	// total 7.00 + 8% tax = 7.56; paid 5.00; due 2.56
	if tx.Due != 256 {
		t.Errorf("Due = %d cents, want 256", tx.Due)
	}
	if tx.Change != 0 {
		t.Errorf("Change = %d cents, want 0", tx.Change)
	}
}

func TestSubmitInsufficientStockReleasesSession(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.bagel.ID: 1})
	if _, err := f.svc.UpdateQuantity(f.ctx, f.cashierID, session.ID, f.bagel.ID, 50); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}

	_, err := f.svc.Submit(f.ctx, f.cashierID, session.ID)
	if err == nil {
		t.Fatal("Submit succeeded despite insufficient stock")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 409 {
		t.Errorf("error code = %d, want 409", appErr.Code)
	}

	// Stock untouched, session retrievable and unlatched for a retry.
	if f.products.products[f.bagel.ID].Stock != 5 {
		t.Errorf("bagel stock = %d, want 5", f.products.products[f.bagel.ID].Stock)
	}
	got, err := f.svc.GetSession(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("GetSession after failed submit: %v", err)
	}
	if got.Submitting {
		t.Error("session still latched after failed submit")
	}
}

func TestSubmitRestoresStockWhenPersistFails(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.coffee.ID: 3})
	f.txs.failCreate = true

	if _, err := f.svc.Submit(f.ctx, f.cashierID, session.ID); err == nil {
		t.Fatal("Submit succeeded despite persistence failure")
	}
	if f.products.products[f.coffee.ID].Stock != 10 {
		t.Errorf("coffee stock = %d, want 10 after rollback", f.products.products[f.coffee.ID].Stock)
	}
}

func TestSubmitRequiresPaymentStep(t *testing.T) {
	f := newCheckoutFixture(t)
	session, err := f.svc.OpenSession(f.ctx, f.cashierID)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if _, err := f.svc.AddItem(f.ctx, f.cashierID, session.ID, f.coffee.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if _, err := f.svc.Submit(f.ctx, f.cashierID, session.ID); err == nil {
		t.Fatal("Submit allowed outside payment step")
	}
	if len(f.txs.created) != 0 {
		t.Errorf("transaction created from products step")
	}
}

func TestAdvanceRequiresItems(t *testing.T) {
	f := newCheckoutFixture(t)
	session, err := f.svc.OpenSession(f.ctx, f.cashierID)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	if _, err := f.svc.Advance(f.ctx, f.cashierID, session.ID); err == nil {
		t.Fatal("Advance allowed with empty cart")
	}

	got, err := f.svc.GetSession(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Step != checkout.StepProducts {
		t.Errorf("Step = %v, want products", got.Step)
	}
}

func TestBackPreservesState(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.coffee.ID: 2})

	if _, err := f.svc.SetTendered(f.ctx, f.cashierID, session.ID, "10"); err != nil {
		t.Fatalf("SetTendered: %v", err)
	}
	if _, err := f.svc.Back(f.ctx, f.cashierID, session.ID); err != nil {
		t.Fatalf("Back: %v", err)
	}

	got, err := f.svc.GetSession(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Step != checkout.StepReview {
		t.Errorf("Step = %v, want review", got.Step)
	}
	if got.Tendered != "10" {
		t.Errorf("Tendered = %q, want 10", got.Tendered)
	}
	if len(got.Cart.Items) != 1 || got.Cart.Items[0].Quantity != 2 {
		t.Error("cart contents lost stepping back")
	}
}

func TestSessionOwnership(t *testing.T) {
	f := newCheckoutFixture(t)
	session, err := f.svc.OpenSession(f.ctx, f.cashierID)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	otherCashier := uuid.New()
	if _, err := f.svc.GetSession(f.ctx, otherCashier, session.ID); err == nil {
		t.Fatal("another cashier could read the session")
	}
}

func TestTotalsUsesConfiguredTaxRate(t *testing.T) {
	f := newCheckoutFixture(t)
	session := f.toPayment(t, map[uuid.UUID]int{f.coffee.ID: 1})

	totals, err := f.svc.Totals(f.ctx, f.cashierID, session.ID)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.TaxRate != 0.08 {
		t.Errorf("TaxRate = %v, want 0.08", totals.TaxRate)
	}
	if totals.SubTotal != 3.50 {
		t.Errorf("SubTotal = %v, want 3.50", totals.SubTotal)
	}
	if totals.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", totals.TotalItems)
	}
}
