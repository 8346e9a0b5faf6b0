package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/request"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
	"github.com/tillpoint/pos-api/internal/presentation/http/middleware"
)

// TenantHandler handles store (tenant) HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// ListTenants returns the stores the current user belongs to
func (h *TenantHandler) ListTenants(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	tenants, err := h.tenantService.GetUserTenants(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stores retrieved successfully", tenants)
}

// Create registers a new store owned by the current user
func (h *TenantHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), &service.CreateTenantInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Store created successfully", tenant)
}

// GetCurrentTenant returns the tenant resolved from the request host
func (h *TenantHandler) GetCurrentTenant(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok || tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store retrieved successfully", tenant)
}

// UpdateTenant renames the current tenant. Owners and managers only.
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	tenantID, _, ok := h.requireMembership(c, "owner", "manager")
	if !ok {
		return
	}

	var req request.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), &service.UpdateTenantInput{
		ID:   tenantID,
		Name: req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store updated successfully", tenant)
}

// ListMembers returns the current tenant's members
func (h *TenantHandler) ListMembers(c *gin.Context) {
	tenantID, _, ok := h.requireMembership(c, "owner", "manager", "cashier")
	if !ok {
		return
	}

	members, err := h.tenantService.GetTenantMembers(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// InviteMember adds an existing user to the current tenant
func (h *TenantHandler) InviteMember(c *gin.Context) {
	tenantID, _, ok := h.requireMembership(c, "owner", "manager")
	if !ok {
		return
	}

	var req request.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.tenantService.InviteMember(c.Request.Context(), &service.InviteMemberInput{
		TenantID: tenantID,
		UserID:   req.UserID,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member added successfully", nil)
}

// UpdateMemberRole changes a member's role in the current tenant
func (h *TenantHandler) UpdateMemberRole(c *gin.Context) {
	tenantID, _, ok := h.requireMembership(c, "owner")
	if !ok {
		return
	}

	memberID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req request.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.tenantService.UpdateMemberRole(c.Request.Context(), tenantID, memberID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}

// RemoveMember removes a member from the current tenant
func (h *TenantHandler) RemoveMember(c *gin.Context) {
	tenantID, _, ok := h.requireMembership(c, "owner", "manager")
	if !ok {
		return
	}

	memberID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), tenantID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListAll returns every store on the platform. Admin only.
func (h *TenantHandler) ListAll(c *gin.Context) {
	tenants, err := h.tenantService.ListAllTenants(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stores retrieved successfully", tenants)
}

// requireMembership resolves the current tenant and checks the caller's
// membership role against the allowed set. Platform admins always pass.
func (h *TenantHandler) requireMembership(c *gin.Context, allowedRoles ...string) (uuid.UUID, string, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, "", false
	}

	tenantID, ok := middleware.GetTenantID(c)
	if !ok || tenantID == uuid.Nil {
		response.BadRequest(c, "Tenant context required")
		return uuid.Nil, "", false
	}

	if IsAdmin(c) {
		return tenantID, "owner", true
	}

	membership, err := h.tenantService.GetMembership(c.Request.Context(), tenantID, *userID)
	if err != nil {
		response.Forbidden(c, "You are not a member of this store")
		return uuid.Nil, "", false
	}

	for _, role := range allowedRoles {
		if membership.Role == role {
			return tenantID, membership.Role, true
		}
	}

	response.Forbidden(c, "Insufficient store role")
	return uuid.Nil, "", false
}
