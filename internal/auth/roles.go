package auth

import "strings"

// Role is an access level on the analysis API.
type Role string

const (
	// RoleViewer may read analytic views.
	RoleViewer Role = "viewer"
	// RoleAuditor may upload datasets, fit models and generate reports.
	RoleAuditor Role = "auditor"
	// RoleAdmin may do everything.
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:  1,
	RoleAuditor: 2,
	RoleAdmin:   3,
}

// NormalizeRole lowercases and validates a role string.
func NormalizeRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := roleRank[role]
	return role, ok
}

// RoleAtLeast reports whether role meets the required level.
func RoleAtLeast(role, required Role) bool {
	return roleRank[role] >= roleRank[required]
}
