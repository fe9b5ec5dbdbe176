// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danghai/bookly/internal/platform/sec"
)

/*
TestRolePolicy_Check verifies admission for allowed roles and rejection for
everything else, including a nil identity.
*/
func TestRolePolicy_Check(t *testing.T) {
	policy := sec.NewRolePolicy(sec.RoleAdmin)

	tests := []struct {
		name     string
		identity *sec.Identity
		want     bool
	}{
		{"admin_allowed", &sec.Identity{UID: "u1", Role: sec.RoleAdmin}, true},
		{"user_denied", &sec.Identity{UID: "u2", Role: sec.RoleUser}, false},
		{"unknown_role_denied", &sec.Identity{UID: "u3", Role: "moderator"}, false},
		{"nil_identity_denied", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Check(tt.identity))
		})
	}
}

/*
TestRolePolicy_Roles verifies the deterministic ordering of the allowed set.
*/
func TestRolePolicy_Roles(t *testing.T) {
	policy := sec.NewRolePolicy(sec.RoleUser, sec.RoleAdmin)
	assert.Equal(t, []string{"admin", "user"}, policy.Roles())

	empty := sec.NewRolePolicy()
	assert.Empty(t, empty.Roles())
}
