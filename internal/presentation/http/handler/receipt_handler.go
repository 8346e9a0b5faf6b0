package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt printing, emailing and public lookup
type ReceiptHandler struct {
	receiptService     *service.ReceiptService
	transactionService *service.TransactionService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, transactionService *service.TransactionService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:     receiptService,
		transactionService: transactionService,
	}
}

// GetPrinterStatus reports whether a receipt printer is configured and reachable
func (h *ReceiptHandler) GetPrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetPrinterStatus())
}

// TestPrint sends a short test page to the printer
func (h *ReceiptHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test page sent to printer", receipt)
}

// Print renders a transaction receipt and sends it to the printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	receipt, err := h.receiptService.PrintReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", receipt)
}

// Email sends an e-receipt with a lookup QR code to the given address
func (h *ReceiptHandler) Email(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.EmailReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.EmailReceipt(c.Request.Context(), id, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt emailed successfully", receipt)
}

// Lookup is the public e-receipt endpoint behind the QR code on printed
// receipts. Invoice numbers are not guessable, so no auth is required.
func (h *ReceiptHandler) Lookup(c *gin.Context) {
	invoiceNo := c.Param("invoice_no")
	if invoiceNo == "" {
		response.BadRequest(c, "Invoice number is required")
		return
	}

	ctx := infraRepo.WithSkipTenantScope(c.Request.Context(), true)

	tx, err := h.transactionService.GetByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		response.NotFound(c, "Receipt not found")
		return
	}

	// Re-scope to the owning store so settings resolve for the receipt
	ctx = infraRepo.WithTenant(ctx, tx.TenantID)

	receipt, err := h.receiptService.ComposeReceipt(ctx, tx.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}
