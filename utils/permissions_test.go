package utils

import (
	"testing"

	"p9e.in/civicgrid/models"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		capability func(models.Role) bool
		admin      bool
		head       bool
		staff      bool
	}{
		{"view all reports", CanViewAllReports, true, false, false},
		{"view department reports", CanViewDepartmentReports, true, true, false},
		{"assign reports", CanAssignReports, true, true, false},
		{"manage users", CanManageUsers, true, false, false},
		{"manage departments", CanManageDepartments, true, false, false},
		{"update status", CanUpdateStatus, true, true, true},
		{"view analytics", CanViewAnalytics, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.capability(models.RoleAdmin); got != tt.admin {
				t.Errorf("%s for ADMIN = %v, expected %v", tt.name, got, tt.admin)
			}
			if got := tt.capability(models.RoleDepartmentHead); got != tt.head {
				t.Errorf("%s for DEPARTMENT_HEAD = %v, expected %v", tt.name, got, tt.head)
			}
			if got := tt.capability(models.RoleStaff); got != tt.staff {
				t.Errorf("%s for STAFF = %v, expected %v", tt.name, got, tt.staff)
			}
		})
	}
}

func TestCapabilities_UnknownRole(t *testing.T) {
	capabilities := []func(models.Role) bool{
		CanViewAllReports, CanViewDepartmentReports, CanAssignReports,
		CanManageUsers, CanManageDepartments, CanUpdateStatus, CanViewAnalytics,
	}
	for _, capability := range capabilities {
		if capability(models.Role("CITIZEN")) {
			t.Error("unknown role must have no capabilities")
		}
	}
}
