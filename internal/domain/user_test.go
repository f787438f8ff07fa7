package domain

import "testing"

func TestParseRole(t *testing.T) {
	for _, s := range []string{"USER", "ADMIN"} {
		r, err := ParseRole(s)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", s, err)
		}
		if string(r) != s {
			t.Fatalf("ParseRole(%q) = %q", s, r)
		}
	}

	for _, s := range []string{"", "user", "ROOT", "Admin"} {
		if _, err := ParseRole(s); err == nil {
			t.Fatalf("ParseRole(%q): expected error", s)
		}
	}
}

func TestHasRole(t *testing.T) {
	u := User{Roles: []Role{RoleUser}}
	if !u.HasRole(RoleUser) {
		t.Fatal("expected USER role")
	}
	if u.HasRole(RoleAdmin) {
		t.Fatal("unexpected ADMIN role")
	}
	if (User{}).HasRole(RoleUser) {
		t.Fatal("empty role set matched")
	}
}
