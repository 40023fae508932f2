package domain

import (
	"fmt"
	"strings"
)

// Role is a marketplace role a user can be onboarded into.
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
)

// allRoles fixes the canonical order used by RoleSet.
var allRoles = []Role{RoleFreelancer, RoleClient}

// Prefix returns the identifier prefix issued for the role.
func (r Role) Prefix() string {
	switch r {
	case RoleFreelancer:
		return "F"
	case RoleClient:
		return "C"
	default:
		return ""
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r.Prefix() != ""
}

// ParseRole normalizes a raw role name ("Freelancer", " client ") into a Role.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return r, nil
}

// RoleSet is a duplicate-free set of roles kept in canonical order
// (freelancer before client). The zero value is the empty set.
type RoleSet []Role

// NewRoleSet builds a normalized set, dropping duplicates and unknown roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, 0, len(allRoles))
	for _, candidate := range allRoles {
		for _, r := range roles {
			if r == candidate {
				set = append(set, candidate)
				break
			}
		}
	}
	return set
}

// ParseRoles normalizes the role list supplied at the API boundary. Unknown
// names are rejected; an empty result is ErrNoRoles.
func ParseRoles(raw []string) (RoleSet, error) {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		r, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	set := NewRoleSet(roles...)
	if len(set) == 0 {
		return nil, ErrNoRoles
	}
	return set, nil
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	for _, held := range s {
		if held == r {
			return true
		}
	}
	return false
}

// With returns a new set containing s plus r.
func (s RoleSet) With(r Role) RoleSet {
	return NewRoleSet(append(append([]Role{}, s...), r)...)
}

// Strings returns the role names, mostly for logging and JSON views.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
