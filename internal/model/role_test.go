package model

import "testing"

var allRoles = []Role{RoleReader, RoleEditor, RoleOwner}

// =========================================================================
// HIERARCHY TESTS
// =========================================================================

func TestSatisfies_Table(t *testing.T) {
	tests := []struct {
		held     Role
		required Role
		want     bool
	}{
		{RoleOwner, RoleOwner, true},
		{RoleOwner, RoleEditor, true},
		{RoleOwner, RoleReader, true},
		{RoleEditor, RoleOwner, false},
		{RoleEditor, RoleEditor, true},
		{RoleEditor, RoleReader, true},
		{RoleReader, RoleOwner, false},
		{RoleReader, RoleEditor, false},
		{RoleReader, RoleReader, true},
	}

	for _, tt := range tests {
		if got := tt.held.Satisfies(tt.required); got != tt.want {
			t.Errorf("%s.Satisfies(%s) = %v, want %v", tt.held, tt.required, got, tt.want)
		}
	}
}

// The hierarchy is a total order: for any pair, at least one direction
// satisfies, and both directions satisfy only for equal roles.
func TestSatisfies_TotalOrder(t *testing.T) {
	for _, a := range allRoles {
		for _, b := range allRoles {
			ab, ba := a.Satisfies(b), b.Satisfies(a)
			if !ab && !ba {
				t.Errorf("neither %s.Satisfies(%s) nor the reverse — order is not total", a, b)
			}
			if ab && ba && a != b {
				t.Errorf("%s and %s satisfy each other but differ — ranks must be distinct", a, b)
			}
		}
	}
}

func TestSatisfies_Transitive(t *testing.T) {
	for _, a := range allRoles {
		for _, b := range allRoles {
			for _, c := range allRoles {
				if a.Satisfies(b) && b.Satisfies(c) && !a.Satisfies(c) {
					t.Errorf("transitivity broken: %s ≥ %s ≥ %s but not %s ≥ %s", a, b, c, a, c)
				}
			}
		}
	}
}

func TestRank_UnknownRolePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Satisfies() with an unknown role should panic — it's a programming error")
		}
	}()
	Role("SUPERVISOR").Satisfies(RoleReader)
}

// =========================================================================
// ParseRole TESTS
// =========================================================================

func TestParseRole(t *testing.T) {
	for _, r := range allRoles {
		got, err := ParseRole(string(r))
		if err != nil {
			t.Errorf("ParseRole(%q) error = %v", r, err)
		}
		if got != r {
			t.Errorf("ParseRole(%q) = %q", r, got)
		}
	}
}

func TestParseRole_Invalid(t *testing.T) {
	for _, bad := range []string{"", "owner", "ADMIN", "READER "} {
		if _, err := ParseRole(bad); err == nil {
			t.Errorf("ParseRole(%q) should fail", bad)
		}
	}
}
