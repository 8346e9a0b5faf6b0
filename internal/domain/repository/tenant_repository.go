package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
)

// TenantRepository defines the interface for store tenant data operations,
// including membership management.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error)
	AddMember(ctx context.Context, membership *entity.TenantMembership) error
	RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error
	GetMembers(ctx context.Context, tenantID uuid.UUID) ([]entity.TenantMembership, error)
	IsMember(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*entity.TenantMembership, error)
	UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListAll(ctx context.Context) ([]entity.Tenant, error)
	Count(ctx context.Context) (int64, error)
}
