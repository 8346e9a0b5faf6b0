package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tillpoint/pos-api/internal/config"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/handler"
	"github.com/tillpoint/pos-api/internal/presentation/http/middleware"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Tenant      *handler.TenantHandler
	Product     *handler.ProductHandler
	Category    *handler.CategoryHandler
	Customer    *handler.CustomerHandler
	Checkout    *handler.CheckoutHandler
	Transaction *handler.TransactionHandler
	Settings    *handler.SettingsHandler
	Dashboard   *handler.DashboardHandler
	Receipt     *handler.ReceiptHandler
	User        *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public e-receipt lookup, linked from printed receipt QR codes
	router.GET("/receipts/:invoice_no", h.Receipt.Lookup)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))

		// Per-tenant rate limiter
		rps := float64(deps.Cfg.RateLimit.Requests)
		if deps.Cfg.RateLimit.Duration > 0 {
			rps = rps / float64(deps.Cfg.RateLimit.Duration)
		}
		rateLimiter := middleware.NewTenantRateLimiter(rps, deps.Cfg.RateLimit.Requests, 10*time.Minute)
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", middleware.RequireTenant(), h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequireTenant(), h.Settings.UpdateSettings)

	// Dashboard
	protected.GET("/dashboard", middleware.RequireTenant(), h.Dashboard.GetStats)

	// Stores
	registerTenantRoutes(protected, h)

	// Products
	registerProductRoutes(protected, h)

	// Categories
	registerCategoryRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Checkout
	registerCheckoutRoutes(protected, h, deps)

	// Transactions
	registerTransactionRoutes(protected, h)

	// Receipts / printer
	registerReceiptRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)

	// Platform admin routes
	registerAdminRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("", h.Tenant.ListTenants)
		tenants.POST("", h.Tenant.Create)
		tenants.GET("/current", middleware.RequireTenant(), h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", middleware.RequireTenant(), h.Tenant.UpdateTenant)
		tenants.GET("/current/members", middleware.RequireTenant(), h.Tenant.ListMembers)
		tenants.POST("/current/members", middleware.RequireTenant(), h.Tenant.InviteMember)
		tenants.PUT("/current/members/:user_id", middleware.RequireTenant(), h.Tenant.UpdateMemberRole)
		tenants.DELETE("/current/members/:user_id", middleware.RequireTenant(), h.Tenant.RemoveMember)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		// Reads are open to every member so cashiers can browse the register
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:slug", h.Product.Get)

		manage := middleware.RequirePermission("manage-products")
		products.POST("", manage, h.Product.Create)
		products.POST("/import", manage, h.Product.ImportProducts)
		products.PUT("/:slug", manage, h.Product.Update)
		products.DELETE("/:slug", manage, h.Product.Delete)
		products.POST("/:slug/image", manage, h.Product.UploadImage)
	}

	// Stock corrections are keyed by product ID, not slug
	inventory := protected.Group("/inventory")
	inventory.Use(middleware.RequirePermission("manage-products"))
	{
		inventory.PUT("/:id/stock", h.Product.AdjustStock)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)

		manage := middleware.RequirePermission("manage-categories")
		categories.POST("", manage, h.Category.Create)
		categories.PUT("/:id", manage, h.Category.Update)
		categories.DELETE("/:id", manage, h.Category.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	checkout := protected.Group("/checkout")
	checkout.Use(middleware.RequireTenant())
	checkout.Use(middleware.RequirePermission("operate-register"))
	{
		checkout.POST("/sessions", h.Checkout.Open)
		checkout.GET("/sessions", h.Checkout.List)
		checkout.GET("/sessions/:id", h.Checkout.Get)
		checkout.DELETE("/sessions/:id", h.Checkout.Abandon)

		checkout.POST("/sessions/:id/items", h.Checkout.AddItem)
		checkout.PUT("/sessions/:id/items", h.Checkout.UpdateQuantity)
		checkout.DELETE("/sessions/:id/items/:product_id", h.Checkout.RemoveItem)
		checkout.DELETE("/sessions/:id/items", h.Checkout.ClearCart)

		checkout.POST("/sessions/:id/advance", h.Checkout.Advance)
		checkout.POST("/sessions/:id/back", h.Checkout.Back)
		checkout.POST("/sessions/:id/reset", h.Checkout.Reset)

		checkout.PUT("/sessions/:id/customer", h.Checkout.SetCustomer)
		checkout.PUT("/sessions/:id/payment-method", h.Checkout.SetPaymentMethod)
		checkout.PUT("/sessions/:id/tendered", h.Checkout.SetTendered)
		checkout.PUT("/sessions/:id/search", h.Checkout.SetSearch)
		checkout.GET("/sessions/:id/totals", h.Checkout.Totals)

		// Submission uses idempotency middleware so a retried request can
		// never ring up the same sale twice
		checkout.POST("/sessions/:id/submit", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.POS.IdempotencyTTL,
		}), h.Checkout.Submit)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers) {
	transactions := protected.Group("/transactions")
	transactions.Use(middleware.RequireTenant())
	transactions.Use(middleware.RequirePermission("operate-register"))
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/due", h.Transaction.GetDue)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.POST("/:id/cancel", h.Transaction.Cancel)
		transactions.POST("/:id/pay", h.Transaction.PayDue)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Receipt.GetPrinterStatus)
		printerGroup.POST("/test", h.Receipt.TestPrint)
	}

	receipts := protected.Group("/transactions/:id/receipt")
	receipts.Use(middleware.RequireTenant())
	{
		receipts.POST("/print", h.Receipt.Print)
		receipts.POST("/email", h.Receipt.Email)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.GET("/tenants", h.Tenant.ListAll)
	}
}
