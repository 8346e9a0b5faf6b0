package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/domain/enum"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
)

// CheckoutHandler drives the three-step checkout wizard over HTTP. Every
// route operates on a session owned by the authenticated cashier.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Open starts a new checkout session for the cashier
func (h *CheckoutHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.checkoutService.OpenSession(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout session opened", session)
}

// List returns the cashier's open sessions, newest first
func (h *CheckoutHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessions, err := h.checkoutService.ListSessions(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout sessions retrieved", sessions)
}

// Get returns a single checkout session
func (h *CheckoutHandler) Get(c *gin.Context) {
	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.GetSession(c.Request.Context(), cashierID, sessionID)
		return session, "Checkout session retrieved", err
	})
}

// Abandon discards a checkout session without creating a sale
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.checkoutService.AbandonSession(c.Request.Context(), *userID, sessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddItem adds one unit of a product to the cart, by ID or by SKU
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.ProductID == nil && req.SKU == "" {
		response.BadRequest(c, "Either product_id or sku is required")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		if req.ProductID != nil {
			session, err := h.checkoutService.AddItem(c.Request.Context(), cashierID, sessionID, *req.ProductID)
			return session, "Item added to cart", err
		}
		session, err := h.checkoutService.AddItemBySKU(c.Request.Context(), cashierID, sessionID, req.SKU)
		return session, "Item added to cart", err
	})
}

// UpdateQuantity sets the quantity of a cart line
func (h *CheckoutHandler) UpdateQuantity(c *gin.Context) {
	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.UpdateQuantity(c.Request.Context(), cashierID, sessionID, req.ProductID, req.Quantity)
		return session, "Cart updated", err
	})
}

// RemoveItem deletes a cart line
func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.RemoveItem(c.Request.Context(), cashierID, sessionID, productID)
		return session, "Item removed from cart", err
	})
}

// ClearCart empties the cart
func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.ClearCart(c.Request.Context(), cashierID, sessionID)
		return session, "Cart cleared", err
	})
}

// Advance moves the wizard one step forward
func (h *CheckoutHandler) Advance(c *gin.Context) {
	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.Advance(c.Request.Context(), cashierID, sessionID)
		return session, "Moved to next step", err
	})
}

// Back moves the wizard one step backward without losing state
func (h *CheckoutHandler) Back(c *gin.Context) {
	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.Back(c.Request.Context(), cashierID, sessionID)
		return session, "Moved to previous step", err
	})
}

// Reset returns the session to a fresh first step
func (h *CheckoutHandler) Reset(c *gin.Context) {
	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.Reset(c.Request.Context(), cashierID, sessionID)
		return session, "Checkout session reset", err
	})
}

// SetCustomer attaches or detaches the customer for the sale
func (h *CheckoutHandler) SetCustomer(c *gin.Context) {
	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.SetCustomer(c.Request.Context(), cashierID, sessionID, req.CustomerID)
		return session, "Customer updated", err
	})
}

// SetPaymentMethod selects how the customer pays
func (h *CheckoutHandler) SetPaymentMethod(c *gin.Context) {
	var req request.SetPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.SetPaymentMethod(c.Request.Context(), cashierID, sessionID, enum.PaymentMethod(req.Method))
		return session, "Payment method updated", err
	})
}

// SetTendered records the tendered amount exactly as typed
func (h *CheckoutHandler) SetTendered(c *gin.Context) {
	var req request.SetTenderedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.SetTendered(c.Request.Context(), cashierID, sessionID, req.Tendered)
		return session, "Tendered amount updated", err
	})
}

// SetSearch stores the product search term on the session
func (h *CheckoutHandler) SetSearch(c *gin.Context) {
	var req request.SetSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		session, err := h.checkoutService.SetSearchTerm(c.Request.Context(), cashierID, sessionID, req.Search)
		return session, "Search term updated", err
	})
}

// Totals returns the live cart totals under the store's tax rate
func (h *CheckoutHandler) Totals(c *gin.Context) {
	h.withSession(c, func(cashierID, sessionID uuid.UUID) (interface{}, string, error) {
		totals, err := h.checkoutService.Totals(c.Request.Context(), cashierID, sessionID)
		return totals, "Totals calculated", err
	})
}

// Submit finalizes the sale, decrements stock and creates the transaction
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	tx, err := h.checkoutService.Submit(c.Request.Context(), *userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed", tx)
}

// withSession parses the session ID, resolves the cashier and runs op,
// writing the uniform response envelope.
func (h *CheckoutHandler) withSession(c *gin.Context, op func(cashierID, sessionID uuid.UUID) (interface{}, string, error)) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	data, message, err := op(*userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, data)
}
