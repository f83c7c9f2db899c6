// Package permissions maps a user role to its fixed capability set. This is a
// blunt global role gate: no per-resource ACL, no ownership checks. Any
// operator can edit any item.
package permissions

import "stockatelier/internal/model"

// Capabilities is the set of booleans derived from a role describing which
// mutating actions are permitted. Computed once per request server-side and
// passed explicitly; never cached in client-visible global state.
type Capabilities struct {
	CanEdit           bool `json:"canEdit"`
	CanEditPrices     bool `json:"canEditPrices"`
	CanDelete         bool `json:"canDelete"`
	CanAddRemoveStock bool `json:"canAddRemoveStock"`
	CanViewOnly       bool `json:"canViewOnly"`
}

// ForRole returns the capability record for a role. Unknown roles get the
// viewer (all-off) record.
func ForRole(role string) Capabilities {
	return Capabilities{
		CanEdit:           role == model.RoleOperator || role == model.RoleAdmin,
		CanEditPrices:     role == model.RoleAdmin,
		CanDelete:         role == model.RoleAdmin,
		CanAddRemoveStock: role != model.RoleViewer && rank(role) > 0,
		CanViewOnly:       role == model.RoleViewer,
	}
}

// rank orders roles for at-least comparisons: viewer < operator < admin.
func rank(role string) int {
	switch role {
	case model.RoleViewer:
		return 1
	case model.RoleOperator:
		return 2
	case model.RoleAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether role has at least the privileges of required.
func AtLeast(role, required string) bool {
	r, q := rank(role), rank(required)
	return r > 0 && r >= q
}
