package services

import (
	"slices"

	"dormdesk/internal/models"
)

// Permission names checked by the RBAC middleware
const (
	PermOrganizationsManage = "organizations:manage"
	PermOrganizationsRead   = "organizations:read"
	PermUsersManage         = "users:manage"
	PermUsersRead           = "users:read"
	PermRoomsRead           = "rooms:read"
	PermRoomsWrite          = "rooms:write"
	PermResidentsRead       = "residents:read"
	PermResidentsWrite      = "residents:write"
	PermBillingsRead        = "billings:read"
	PermBillingsWrite       = "billings:write"
	PermBillingsReview      = "billings:review"
	PermExpensesRead        = "expenses:read"
	PermExpensesWrite       = "expenses:write"
	PermDocumentsRead       = "documents:read"
	PermDocumentsWrite      = "documents:write"
	PermBroadcastSend       = "broadcast:send"
	PermSettingsManage      = "settings:manage"
	PermAuditRead           = "audit:read"
	PermDashboardRead       = "dashboard:read"
	PermJobsRead            = "jobs:read"
)

var viewerPermissions = []string{
	PermOrganizationsRead, PermRoomsRead, PermResidentsRead, PermBillingsRead,
	PermExpensesRead, PermDocumentsRead, PermDashboardRead,
}

var staffPermissions = append(slices.Clone(viewerPermissions),
	PermUsersRead, PermRoomsWrite, PermResidentsWrite, PermBillingsWrite,
	PermExpensesWrite, PermDocumentsWrite, PermBroadcastSend,
)

var adminPermissions = append(slices.Clone(staffPermissions),
	PermUsersManage, PermBillingsReview, PermSettingsManage, PermAuditRead,
)

var superAdminPermissions = append(slices.Clone(adminPermissions),
	PermOrganizationsManage, PermJobsRead,
)

var rolePermissions = map[string][]string{
	models.RoleSuperAdmin: superAdminPermissions,
	models.RoleAdmin:      adminPermissions,
	models.RoleStaff:      staffPermissions,
	models.RoleViewer:     viewerPermissions,
}

// RBACService answers permission questions from the static role matrix
type RBACService interface {
	RoleHasPermission(role, permission string) bool
	GetRolePermissions(role string) []string
	// CanAssignRole reports whether actorRole may give a user targetRole
	CanAssignRole(actorRole, targetRole string) bool
}

type rbacService struct{}

func NewRBACService() RBACService {
	return &rbacService{}
}

func (s *rbacService) RoleHasPermission(role, permission string) bool {
	return slices.Contains(rolePermissions[role], permission)
}

func (s *rbacService) GetRolePermissions(role string) []string {
	perms := slices.Clone(rolePermissions[role])
	slices.Sort(perms)
	return perms
}

func (s *rbacService) CanAssignRole(actorRole, targetRole string) bool {
	if _, known := rolePermissions[targetRole]; !known {
		return false
	}
	if targetRole == models.RoleSuperAdmin {
		return actorRole == models.RoleSuperAdmin
	}
	return s.RoleHasPermission(actorRole, PermUsersManage)
}
