package request

import "github.com/google/uuid"

// CreateTenantRequest represents a store (tenant) creation request
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
	Slug string `json:"slug" binding:"omitempty,min=2,max=100,lowercase"`
}

// UpdateTenantRequest represents a tenant update request
type UpdateTenantRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// InviteMemberRequest adds an existing user to the tenant
type InviteMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"omitempty,oneof=owner manager cashier"`
}

// UpdateMemberRoleRequest changes a member's role within the tenant
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner manager cashier"`
}

// UpdateUserRolesRequest replaces a user's global roles
type UpdateUserRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}
