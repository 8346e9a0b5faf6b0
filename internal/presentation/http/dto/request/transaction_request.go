package request

// PayDueRequest records a follow-up payment against a due transaction
type PayDueRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// TransactionFilterRequest represents transaction list filter parameters
type TransactionFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	Method    string `form:"method"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Limit     int    `form:"limit"` // For cursor-based pagination
}

// EmailReceiptRequest sends a receipt to the given address
type EmailReceiptRequest struct {
	Email string `json:"email" binding:"required,email"`
}
