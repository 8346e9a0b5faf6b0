package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/metrics"
	"github.com/tillpoint/pos-api/pkg/apperror"
	"github.com/tillpoint/pos-api/pkg/email"
	"github.com/tillpoint/pos-api/pkg/printer"
)

// ReceiptService composes receipts from recorded transactions and delivers
// them: thermal print, e-receipt email, or plain JSON for the frontend.
type ReceiptService struct {
	printer       printer.Printer
	txRepo        repository.TransactionRepository
	userRepo      repository.UserRepository
	settings      *SettingsService
	emailService  *email.EmailService
	printerType   string
	receiptWidth  int
	lookupBaseURL string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	p printer.Printer,
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	settings *SettingsService,
	emailService *email.EmailService,
	printerType string,
	receiptWidth int,
	lookupBaseURL string,
) *ReceiptService {
	if receiptWidth <= 0 {
		receiptWidth = 32 // 58mm paper
	}
	return &ReceiptService{
		printer:       p,
		txRepo:        txRepo,
		userRepo:      userRepo,
		settings:      settings,
		emailService:  emailService,
		printerType:   printerType,
		receiptWidth:  receiptWidth,
		lookupBaseURL: lookupBaseURL,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetPrinterStatus returns printer connection status.
func (s *ReceiptService) GetPrinterStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when the
// printer is disabled.
func (s *ReceiptService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
			Address:   "Test Address",
			Phone:     "+1 000 000 0000",
		},
		InvoiceNo: "TEST-001",
		Date:      "Test Date",
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		SubTotal: 20.00,
		Tax:      0.00,
		Total:    20.00,
		Paid:     20.00,
	}

	data := s.format(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// ComposeReceipt builds the receipt value object for a transaction.
func (s *ReceiptService) ComposeReceipt(ctx context.Context, txID uuid.UUID) (*entity.Receipt, error) {
	tx, err := s.txRepo.GetWithItems(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: settings.StoreName,
			Address:   settings.StoreAddress,
			Phone:     settings.StorePhone,
			TaxID:     settings.TaxID,
		},
		InvoiceNo:     tx.InvoiceNo,
		Date:          tx.TxDate.Format("2006-01-02 15:04"),
		PaymentMethod: string(tx.PaymentMethod),
		Currency:      settings.Currency,
		SubTotal:      entity.DecimalFromCents(tx.SubTotal),
		Tax:           entity.DecimalFromCents(tx.Tax),
		Total:         entity.DecimalFromCents(tx.Total),
		Paid:          entity.DecimalFromCents(tx.AmountPaid),
		Change:        entity.DecimalFromCents(tx.Change),
		Due:           entity.DecimalFromCents(tx.Due),
		Footer:        settings.ReceiptFooter,
	}
	if receipt.Header.StoreName == "" {
		receipt.Header.StoreName = "Receipt"
	}

	if cashier, err := s.userRepo.GetByID(ctx, tx.CashierID); err == nil && cashier != nil {
		receipt.Cashier = cashier.FullName()
	}
	if tx.Customer != nil {
		receipt.Customer = tx.Customer.Name
	}

	if s.lookupBaseURL != "" {
		receipt.LookupURL = fmt.Sprintf("%s/receipts/%s", s.lookupBaseURL, tx.InvoiceNo)
	}

	for _, item := range tx.Items {
		line := entity.ReceiptItem{
			Quantity:  item.Quantity,
			UnitPrice: entity.DecimalFromCents(item.UnitPrice),
			Total:     entity.DecimalFromCents(item.Total),
		}
		if item.Product.Name != "" {
			line.Name = item.Product.Name
		} else {
			line.Name = "Product"
		}
		receipt.Items = append(receipt.Items, line)
	}

	return receipt, nil
}

// PrintReceipt composes and prints the receipt for a transaction.
func (s *ReceiptService) PrintReceipt(ctx context.Context, txID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.ComposeReceipt(ctx, txID)
	if err != nil {
		return nil, err
	}

	data := s.format(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (transaction %s): %v", txID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	metrics.ReceiptsPrinted.Inc()
	return receipt, nil
}

// EmailReceipt composes the receipt and emails it, attaching a QR code
// that links to the online receipt when a lookup URL is configured.
func (s *ReceiptService) EmailReceipt(ctx context.Context, txID uuid.UUID, toEmail string) (*entity.Receipt, error) {
	receipt, err := s.ComposeReceipt(ctx, txID)
	if err != nil {
		return nil, err
	}

	var qrPNG []byte
	if receipt.LookupURL != "" {
		qrPNG, err = qrcode.Encode(receipt.LookupURL, qrcode.Medium, 256)
		if err != nil {
			// QR failure should not block the e-receipt itself
			qrPNG = nil
		}
	}

	if err := s.emailService.SendReceiptEmail(toEmail, receipt, qrPNG); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// format converts a Receipt into ESC/POS bytes.
func (s *ReceiptService) format(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.receiptWidth)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Tax > 0 {
		doc.KeyValue("Tax:", fmt.Sprintf("%.2f", r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Change > 0 {
		doc.KeyValue("Change:", fmt.Sprintf("%.2f", r.Change))
	}
	if r.Due > 0 {
		doc.KeyValue("DUE:", fmt.Sprintf("%.2f", r.Due))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter)

	if r.LookupURL != "" {
		doc.LineFeed().
			QRCode(r.LookupURL, 4).
			Text("Scan for your e-receipt")
	}

	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
