package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for per-store settings operations
type SettingsRepository interface {
	Create(ctx context.Context, settings *entity.StoreSettings) error
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.StoreSettings, error)
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
