package email

import (
	"strings"
	"testing"

	"github.com/tillpoint/pos-api/internal/domain/entity"
)

func testService() *EmailService {
	return NewEmailService(EmailConfig{
		FromName:    "Corner Store",
		FromEmail:   "till@corner.example",
		FrontendURL: "https://pos.example.com",
	})
}

func TestPasswordResetURLEscapesParams(t *testing.T) {
	s := testService()

	got := s.passwordResetURL("owner+test@corner.example", "tok/with=chars")
	if !strings.HasPrefix(got, "https://pos.example.com/reset-password?") {
		t.Fatalf("unexpected URL base: %s", got)
	}
	if strings.Contains(got, "tok/with=chars") {
		t.Fatalf("token not query-escaped: %s", got)
	}
	if !strings.Contains(got, "token=tok%2Fwith%3Dchars") {
		t.Fatalf("escaped token missing: %s", got)
	}
	if !strings.Contains(got, "email=owner%2Btest%40corner.example") {
		t.Fatalf("escaped email missing: %s", got)
	}
}

func TestRenderPasswordResetTemplate(t *testing.T) {
	s := testService()

	html, err := s.renderTemplate("password_reset", passwordResetTemplate, struct {
		Email    string
		ResetURL string
		AppName  string
	}{
		Email:    "cashier@corner.example",
		ResetURL: "https://pos.example.com/reset-password?token=abc",
		AppName:  "Corner Store",
	})
	if err != nil {
		t.Fatalf("renderTemplate returned error: %v", err)
	}
	for _, want := range []string{"Corner Store", "cashier@corner.example", "token=abc"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestRenderReceiptTemplate(t *testing.T) {
	s := testService()

	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "Corner Store", Address: "12 Main St"},
		InvoiceNo: "INV-20260830-A1B2C3",
		Date:      "2026-08-30 14:05",
		Cashier:   "Jo Till",
		Currency:  "USD",
		Items: []entity.ReceiptItem{
			{Name: "Espresso Beans 1kg", Quantity: 2, UnitPrice: 12.50, Total: 25.00},
			{Name: "Paper Cups", Quantity: 1, UnitPrice: 2.54, Total: 2.54},
		},
		SubTotal: 27.54,
		Tax:      2.20,
		Total:    29.74,
		Paid:     30.00,
		Change:   0.26,
	}

	html, err := s.renderTemplate("receipt", receiptTemplate, receipt)
	if err != nil {
		t.Fatalf("renderTemplate returned error: %v", err)
	}
	for _, want := range []string{
		"INV-20260830-A1B2C3",
		"Espresso Beans 1kg",
		"27.54",
		"29.74 USD",
		"Change:",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered receipt missing %q", want)
		}
	}
	if strings.Contains(html, "Balance due") {
		t.Error("fully paid receipt must not show a balance due row")
	}
}

func TestRenderReceiptTemplateDueSale(t *testing.T) {
	s := testService()

	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "Corner Store"},
		InvoiceNo: "INV-20260830-D4E5F6",
		Items:     []entity.ReceiptItem{{Name: "Flour 5kg", Quantity: 1, UnitPrice: 18.00, Total: 18.00}},
		SubTotal:  18.00,
		Tax:       1.44,
		Total:     19.44,
		Paid:      10.00,
		Due:       9.44,
	}

	html, err := s.renderTemplate("receipt", receiptTemplate, receipt)
	if err != nil {
		t.Fatalf("renderTemplate returned error: %v", err)
	}
	if !strings.Contains(html, "Balance due") {
		t.Error("partially paid receipt must show the balance due row")
	}
	if !strings.Contains(html, "9.44") {
		t.Error("balance due amount missing from rendered receipt")
	}
	if strings.Contains(html, "Change:") {
		t.Error("zero change must not render a change row")
	}
}
