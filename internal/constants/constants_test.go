package constants

import "testing"

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleAdmin, RoleAuthor, true},
		{RoleAdmin, RoleReader, true},
		{RoleAuthor, RoleAuthor, true},
		{RoleAuthor, RoleAdmin, false},
		{RoleReader, RoleAuthor, false},
		{Role("ghost"), RoleReader, false},
	}
	for _, tc := range cases {
		if got := RoleAtLeast(tc.role, tc.min); got != tc.want {
			t.Fatalf("RoleAtLeast(%s, %s)=%v want %v", tc.role, tc.min, got, tc.want)
		}
	}
}
