package repository

import "testing"

func TestBuildContainsConditionByDialect(t *testing.T) {
	cases := []struct {
		dialect string
		columns []string
		want    string
		count   int
	}{
		{"sqlite", []string{"title", "slug"}, "title LIKE ? OR slug LIKE ?", 2},
		{"postgres", []string{"username", " ", "email"}, "username ILIKE ? OR email ILIKE ?", 2},
		{"", nil, "", 0},
	}
	for _, tc := range cases {
		got, count := buildContainsConditionByDialect(tc.dialect, tc.columns...)
		if got != tc.want || count != tc.count {
			t.Fatalf("dialect %q: want %q/%d got %q/%d", tc.dialect, tc.want, tc.count, got, count)
		}
	}
}

func TestDBDialectNameDefaultsToSQLite(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("want sqlite got %s", got)
	}
	db := openRepositoryTestDB(t)
	if got := dbDialectName(db); got != "sqlite" {
		t.Fatalf("want sqlite got %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs(containsPattern("go"), 3)
	if len(args) != 3 || args[2] != "%go%" {
		t.Fatalf("unexpected args: %v", args)
	}
}
