package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/config"
	"github.com/tillpoint/pos-api/internal/infrastructure/cache"
	"github.com/tillpoint/pos-api/internal/infrastructure/database"
	"github.com/tillpoint/pos-api/internal/infrastructure/repository"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/handler"
	"github.com/tillpoint/pos-api/internal/presentation/http/routes"
	"github.com/tillpoint/pos-api/pkg/email"
	"github.com/tillpoint/pos-api/pkg/oauth"
	"github.com/tillpoint/pos-api/pkg/printer"
	"github.com/tillpoint/pos-api/pkg/storage"
	"github.com/tillpoint/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	transactionItemRepo := repository.NewTransactionItemRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Checkout sessions live in Redis when configured, in memory otherwise
	sessionRepo := newSessionStore(cfg)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.App.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleService(oauth.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		CallbackURL:  cfg.OAuth.GoogleRedirectURL,
		SuccessURL:   cfg.OAuth.FrontendSuccessURL,
		ErrorURL:     cfg.OAuth.FrontendErrorURL,
	})

	// Object storage for product images, optional
	var objectStorage *storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		objectStorage, err = storage.NewObjectStorage(context.Background(), storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v", err)
			objectStorage = nil
		}
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService)
	tenantService := service.NewTenantService(tenantRepo)
	settingsService := service.NewSettingsService(settingsRepo, cfg.POS.DefaultTaxRate)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	checkoutService := service.NewCheckoutService(sessionRepo, productRepo, customerRepo, transactionRepo, transactionItemRepo, settingsService)
	transactionService := service.NewTransactionService(transactionRepo, transactionItemRepo, productRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, transactionRepo, productRepo, customerRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	receiptService := service.NewReceiptService(
		thermalPrinter,
		transactionRepo,
		userRepo,
		settingsService,
		emailService,
		cfg.Printer.Type,
		cfg.POS.ReceiptWidth,
		cfg.POS.LookupBaseURL,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService, googleOAuthService),
		Tenant:      handler.NewTenantHandler(tenantService),
		Product:     handler.NewProductHandler(productService, objectStorage, cfg.Storage.UploadMaxSize),
		Category:    handler.NewCategoryHandler(categoryService),
		Customer:    handler.NewCustomerHandler(customerService),
		Checkout:    handler.NewCheckoutHandler(checkoutService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Settings:    handler.NewSettingsHandler(settingsService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Receipt:     handler.NewReceiptHandler(receiptService, transactionService),
		User:        handler.NewUserHandler(userService),
	}

	// Sweep expired idempotency keys in the background
	go sweepIdempotencyKeys(idempotencyRepo)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// newSessionStore picks the checkout session backend. Redis keeps sessions
// alive across restarts and lets terminals reconnect to another replica.
func newSessionStore(cfg *config.Config) domainRepo.CheckoutSessionRepository {
	if cfg.POS.SessionBackend == "redis" {
		client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
		if err != nil {
			log.Printf("Warning: Redis unavailable, falling back to in-memory sessions: %v", err)
		} else {
			return cache.NewRedisSessionStore(client, cfg.POS.SessionTTL)
		}
	}
	return repository.NewMemorySessionStore(cfg.POS.SessionTTL)
}

func sweepIdempotencyKeys(repo domainRepo.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repo.DeleteExpired(context.Background()); err != nil {
			log.Printf("Warning: failed to purge expired idempotency keys: %v", err)
		}
	}
}
