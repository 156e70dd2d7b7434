package authz_test

import (
	"testing"

	"github.com/dalemusser/collegesite/internal/app/system/authz"
)

func TestPolicy_Allows(t *testing.T) {
	tests := []struct {
		policy authz.Policy
		role   authz.Role
		want   bool
	}{
		{authz.AnyPrincipal, authz.RoleAdmin, true},
		{authz.AnyPrincipal, authz.RoleEditor, true},
		{authz.EditorOrAdmin, authz.RoleAdmin, true},
		{authz.EditorOrAdmin, authz.RoleEditor, true},
		{authz.AdminOnly, authz.RoleAdmin, true},
		{authz.AdminOnly, authz.RoleEditor, false},
		{authz.AdminOnly, authz.Role("superuser"), false},
		{authz.AnyPrincipal, authz.Role(""), false},
		{authz.Policy(0), authz.RoleAdmin, false},
		{authz.Policy(99), authz.RoleEditor, false},
	}
	for _, tt := range tests {
		if got := tt.policy.Allows(tt.role); got != tt.want {
			t.Errorf("%s.Allows(%q) = %v, want %v", tt.policy, tt.role, got, tt.want)
		}
	}
}

func TestPolicy_DeniedMessage(t *testing.T) {
	if got := authz.AdminOnly.DeniedMessage(); got != "Admin access required" {
		t.Errorf("AdminOnly: %q", got)
	}
	if got := authz.EditorOrAdmin.DeniedMessage(); got != "Editor or Admin access required" {
		t.Errorf("EditorOrAdmin: %q", got)
	}
}
