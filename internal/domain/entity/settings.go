package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings holds per-tenant store configuration. The tax rate used by
// every cart computation comes from here; it is never a literal in code.
type StoreSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Receipt header
	StoreName    string `gorm:"size:255" json:"store_name"`
	StoreAddress string `gorm:"type:text" json:"store_address"`
	StorePhone   string `gorm:"size:50" json:"store_phone"`
	TaxID        string `gorm:"size:100" json:"tax_id"`

	// Sale configuration
	TaxRate       float64 `gorm:"default:0.08" json:"tax_rate"`
	Currency      string  `gorm:"size:10;default:'USD'" json:"currency"`
	InvoicePrefix string  `gorm:"size:20;default:'INV-'" json:"invoice_prefix"`
	ReceiptFooter string  `gorm:"type:text" json:"receipt_footer"`

	// Alerts
	LowStockAlerts bool `gorm:"default:true" json:"low_stock_alerts"`
	SaleAlerts     bool `gorm:"default:true" json:"sale_alerts"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
