package utils

import "p9e.in/civicgrid/models"

// Role capability predicates consulted by API handlers before invoking
// workflow or management operations. Pure functions, no state.
//
// Capability matrix:
//   - ADMIN: everything
//   - DEPARTMENT_HEAD: department report listing, assignment, status, analytics
//   - STAFF: status updates on individual reports

// CanViewAllReports reports whether the role may list reports across all
// departments.
func CanViewAllReports(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanViewDepartmentReports reports whether the role may list reports of
// its own department. STAFF does not get the listing; individual reports
// are reachable through the status-update capability.
func CanViewDepartmentReports(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleDepartmentHead
}

// CanAssignReports reports whether the role may assign reports to staff
// or escalate priority.
func CanAssignReports(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleDepartmentHead
}

// CanManageUsers reports whether the role may create or modify staff
// accounts.
func CanManageUsers(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageDepartments reports whether the role may create or modify
// departments.
func CanManageDepartments(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanUpdateStatus reports whether the role may apply status transitions.
func CanUpdateStatus(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleDepartmentHead || role == models.RoleStaff
}

// CanViewAnalytics reports whether the role may view aggregate analytics.
func CanViewAnalytics(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleDepartmentHead
}
