package session

import "strings"

// UserRole is the role claim carried by backend issued tokens
type UserRole = string

const (
	// RoleAdmin manages the whole marketplace
	RoleAdmin UserRole = "Admin"
	// RoleProvider manages a single facility and its services
	RoleProvider UserRole = "Provider"
	// RoleCustomer browses facilities and books appointments
	RoleCustomer UserRole = "Customer"
)

// IsValidRole checks if the role is one of the predefined marketplace roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleCustomer:
		return true
	default:
		return false
	}
}

// AllRoles returns every predefined role
func AllRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleProvider, RoleCustomer}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(strings.TrimSpace(roleStr))
	return role, IsValidRole(role)
}

// RoleSet is the set of roles a portal variant accepts. An empty set admits
// any valid role, which lets a single deployment serve mixed audiences.
type RoleSet map[UserRole]struct{}

// NewRoleSet builds a RoleSet, ignoring empty entries
func NewRoleSet(roles ...UserRole) RoleSet {
	set := RoleSet{}
	for _, r := range roles {
		if r != "" {
			set[r] = struct{}{}
		}
	}
	return set
}

// Allows reports whether the role is admitted by this set
func (s RoleSet) Allows(role UserRole) bool {
	if len(s) == 0 {
		return IsValidRole(role)
	}
	_, ok := s[role]
	return ok
}

// Strings returns the set members for error metadata and logging
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range AllRoles() {
		if _, ok := s[r]; ok {
			out = append(out, string(r))
		}
	}
	return out
}
