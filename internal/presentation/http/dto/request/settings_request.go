package request

// UpdateSettingsRequest represents a store settings update request
type UpdateSettingsRequest struct {
	StoreName      string  `json:"store_name" binding:"required,min=2,max=255"`
	StoreAddress   string  `json:"store_address" binding:"omitempty,max=500"`
	StorePhone     string  `json:"store_phone" binding:"omitempty,max=50"`
	TaxID          string  `json:"tax_id" binding:"omitempty,max=100"`
	TaxRate        float64 `json:"tax_rate" binding:"min=0,lt=1"`
	Currency       string  `json:"currency" binding:"required,len=3"`
	InvoicePrefix  string  `json:"invoice_prefix" binding:"omitempty,max=10"`
	ReceiptFooter  string  `json:"receipt_footer" binding:"omitempty,max=500"`
	LowStockAlerts bool    `json:"low_stock_alerts"`
	SaleAlerts     bool    `json:"sale_alerts"`
}
