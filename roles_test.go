package session_test

import (
	"testing"

	"github.com/serenoa/go-session"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  session.UserRole
		valid bool
	}{
		{"Admin", session.RoleAdmin, true},
		{"Provider", session.RoleProvider, true},
		{"Customer", session.RoleCustomer, true},
		{"  Admin  ", session.RoleAdmin, true},
		{"admin", "admin", false},
		{"Owner", "Owner", false},
		{"", "", false},
	}

	for _, tt := range tests {
		role, ok := session.ParseRole(tt.input)
		assert.Equal(t, tt.valid, ok, "input %q", tt.input)
		if tt.valid {
			assert.Equal(t, tt.want, role)
		}
	}
}

func TestRoleSet(t *testing.T) {
	t.Run("scoped set", func(t *testing.T) {
		set := session.NewRoleSet(session.RoleAdmin, session.RoleProvider)
		assert.True(t, set.Allows(session.RoleAdmin))
		assert.True(t, set.Allows(session.RoleProvider))
		assert.False(t, set.Allows(session.RoleCustomer))
		assert.False(t, set.Allows("Owner"))
	})

	t.Run("empty set admits any valid role", func(t *testing.T) {
		set := session.NewRoleSet()
		assert.True(t, set.Allows(session.RoleCustomer))
		assert.True(t, set.Allows(session.RoleAdmin))
		assert.False(t, set.Allows("Owner"))
		assert.False(t, set.Allows(""))
	})

	t.Run("ignores empty entries", func(t *testing.T) {
		set := session.NewRoleSet("", session.RoleAdmin, "")
		assert.Equal(t, []string{"Admin"}, set.Strings())
		assert.False(t, set.Allows(session.RoleCustomer))
	})

	t.Run("strings follow the canonical role order", func(t *testing.T) {
		set := session.NewRoleSet(session.RoleCustomer, session.RoleAdmin)
		assert.Equal(t, []string{"Admin", "Customer"}, set.Strings())
	})
}
