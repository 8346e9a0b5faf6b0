package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/pkg/apperror"
)

// SettingsService handles store settings business logic. Every cart
// computation pulls its tax rate from here, never from a literal.
type SettingsService struct {
	settingsRepo   repository.SettingsRepository
	defaultTaxRate float64
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, defaultTaxRate float64) *SettingsService {
	return &SettingsService{
		settingsRepo:   settingsRepo,
		defaultTaxRate: defaultTaxRate,
	}
}

// GetSettings retrieves the tenant's store settings, creating defaults if not exists
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	settings, err := s.settingsRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// If no settings exist, create default settings
	if settings == nil {
		settings = &entity.StoreSettings{
			TenantID:       tenantID,
			TaxRate:        s.defaultTaxRate,
			Currency:       "USD",
			InvoicePrefix:  "INV-",
			LowStockAlerts: true,
			SaleAlerts:     true,
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// GetTaxRate returns the tenant's configured tax rate, falling back to the
// application default when settings cannot be loaded.
func (s *SettingsService) GetTaxRate(ctx context.Context) float64 {
	settings, err := s.GetSettings(ctx)
	if err != nil || settings == nil {
		return s.defaultTaxRate
	}
	return settings.TaxRate
}

// UpdateSettingsInput represents the input for updating store settings
type UpdateSettingsInput struct {
	StoreName      string
	StoreAddress   string
	StorePhone     string
	TaxID          string
	TaxRate        float64
	Currency       string
	InvoicePrefix  string
	ReceiptFooter  string
	LowStockAlerts bool
	SaleAlerts     bool
}

// UpdateSettings updates the tenant's store settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.TaxRate < 0 || input.TaxRate >= 1 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "tax_rate", Message: "Tax rate must be a fraction between 0 and 1"},
		})
	}

	settings, err := s.settingsRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// If no settings exist, create new
	if settings == nil {
		settings = &entity.StoreSettings{
			TenantID: tenantID,
		}
	}

	// Update fields
	settings.StoreName = input.StoreName
	settings.StoreAddress = input.StoreAddress
	settings.StorePhone = input.StorePhone
	settings.TaxID = input.TaxID
	settings.TaxRate = input.TaxRate
	settings.Currency = input.Currency
	settings.InvoicePrefix = input.InvoicePrefix
	settings.ReceiptFooter = input.ReceiptFooter
	settings.LowStockAlerts = input.LowStockAlerts
	settings.SaleAlerts = input.SaleAlerts

	if settings.ID == uuid.Nil {
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	} else {
		if err := s.settingsRepo.Update(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}
