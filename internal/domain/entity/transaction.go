package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Transaction is the immutable record of a completed checkout. It is created
// exactly once at submission; later edits (pay-due, cancel) go through their
// own service paths and never through the checkout core.
type Transaction struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CashierID     uuid.UUID              `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CustomerID    *uuid.UUID             `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	InvoiceNo     string                 `gorm:"size:100;unique;not null" json:"invoice_no"`
	PaymentMethod enum.PaymentMethod     `gorm:"size:50;default:'cash'" json:"payment_method"`
	Status        enum.TransactionStatus `gorm:"default:0" json:"status"`
	TotalItems    int                    `gorm:"default:0" json:"total_items"`
	SubTotal      int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax           int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount      int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	AmountPaid    int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Change        int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Due           int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TxDate        time.Time              `gorm:"not null" json:"tx_date"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	DeletedAt     gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant            `gorm:"foreignKey:TenantID" json:"-"`
	Cashier  User              `gorm:"foreignKey:CashierID" json:"-"`
	Customer *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		SubTotal   float64 `json:"sub_total"`
		Tax        float64 `json:"tax"`
		Total      float64 `json:"total"`
		Discount   float64 `json:"discount"`
		AmountPaid float64 `json:"amount_paid"`
		Change     float64 `json:"change"`
		Due        float64 `json:"due"`
	}{
		Alias:      Alias(t),
		SubTotal:   DecimalFromCents(t.SubTotal),
		Tax:        DecimalFromCents(t.Tax),
		Total:      DecimalFromCents(t.Total),
		Discount:   DecimalFromCents(t.Discount),
		AmountPaid: DecimalFromCents(t.AmountPaid),
		Change:     DecimalFromCents(t.Change),
		Due:        DecimalFromCents(t.Due),
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TotalDecimal returns the total as a decimal
func (t *Transaction) TotalDecimal() float64 {
	return DecimalFromCents(t.Total)
}

// DueDecimal returns the outstanding due amount as a decimal
func (t *Transaction) DueDecimal() float64 {
	return DecimalFromCents(t.Due)
}

// TransactionItem is the snapshot of one cart line at the moment of sale.
// Unit price is copied from the product so later catalog edits do not
// rewrite history.
type TransactionItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	UnitPrice     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total         int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ti TransactionItem) MarshalJSON() ([]byte, error) {
	type Alias TransactionItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(ti),
		UnitPrice: DecimalFromCents(ti.UnitPrice),
		Total:     DecimalFromCents(ti.Total),
	})
}

// BeforeCreate generates a UUID before creating a new transaction item
func (ti *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}
