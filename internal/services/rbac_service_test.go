package services

import (
	"testing"

	"dormdesk/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRBACService_Matrix(t *testing.T) {
	rbac := NewRBACService()

	cases := []struct {
		permission string
		allowed    map[string]bool
	}{
		{PermOrganizationsManage, map[string]bool{models.RoleSuperAdmin: true}},
		{PermOrganizationsRead, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true, models.RoleViewer: true}},
		{PermUsersManage, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true}},
		{PermUsersRead, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true}},
		{PermRoomsWrite, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true}},
		{PermBillingsRead, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true, models.RoleViewer: true}},
		{PermBillingsWrite, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true}},
		{PermBillingsReview, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true}},
		{PermBroadcastSend, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true}},
		{PermSettingsManage, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true}},
		{PermAuditRead, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true}},
		{PermDashboardRead, map[string]bool{models.RoleSuperAdmin: true, models.RoleAdmin: true, models.RoleStaff: true, models.RoleViewer: true}},
	}

	roles := []string{models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff, models.RoleViewer}
	for _, tc := range cases {
		for _, role := range roles {
			assert.Equal(t, tc.allowed[role], rbac.RoleHasPermission(role, tc.permission), "%s / %s", role, tc.permission)
		}
	}
	assert.False(t, rbac.RoleHasPermission("unknown", PermRoomsRead))
}

func TestRBACService_CanAssignRole(t *testing.T) {
	rbac := NewRBACService()

	assert.False(t, rbac.CanAssignRole(models.RoleAdmin, models.RoleSuperAdmin))
	assert.True(t, rbac.CanAssignRole(models.RoleSuperAdmin, models.RoleSuperAdmin))
	assert.True(t, rbac.CanAssignRole(models.RoleAdmin, models.RoleStaff))
	assert.False(t, rbac.CanAssignRole(models.RoleStaff, models.RoleViewer))
	assert.False(t, rbac.CanAssignRole(models.RoleAdmin, "owner"))
}

func TestRBACService_GetRolePermissionsSorted(t *testing.T) {
	perms := NewRBACService().GetRolePermissions(models.RoleViewer)
	assert.IsNonDecreasing(t, perms)
	assert.NotContains(t, perms, PermBillingsWrite)
}
