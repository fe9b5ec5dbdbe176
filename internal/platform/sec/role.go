// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package sec

import "sort"

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// # Identity

// Identity is the authenticated subject: the resolved account behind a
// verified bearer token. The auth core only reads it; the user-account store
// owns it.
type Identity struct {
	UID        string   `json:"uid"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	IsVerified bool     `json:"is_verified"`
}

// # Role Policy

// RolePolicy is a role-based authorization gate constructed with a fixed,
// immutable set of allowed roles.
//
// # Purity
//
// Check performs no I/O and has no side effects. It is evaluated in the
// request pipeline after the token guard succeeds and the identity resolver
// has produced an [Identity].
type RolePolicy struct {
	allowed map[UserRole]struct{}
}

// NewRolePolicy builds a policy permitting exactly the given roles.
func NewRolePolicy(roles ...UserRole) RolePolicy {
	allowed := make(map[UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return RolePolicy{allowed: allowed}
}

// Check reports whether the identity's role is in the allowed set.
func (policy RolePolicy) Check(identity *Identity) bool {
	if identity == nil {
		return false
	}
	_, ok := policy.allowed[identity.Role]
	return ok
}

// Roles returns the allowed role names in deterministic order, for logging.
func (policy RolePolicy) Roles() []string {
	names := make([]string, 0, len(policy.allowed))
	for role := range policy.allowed {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return names
}
