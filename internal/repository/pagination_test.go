package repository

import (
	"fmt"
	"testing"

	"github.com/inkpost/internal/models"
)

func TestApplyPaginationClampsInput(t *testing.T) {
	db := openRepositoryTestDB(t)
	author := createTestUser(t, db, "pager")
	repo := NewPostRepository(db)
	for i := 0; i < 5; i++ {
		createTestPost(t, repo, author, fmt.Sprintf("Paged %d", i))
	}

	cases := []struct {
		page, pageSize int
		want           int
	}{
		{1, 2, 2},
		{3, 2, 1},
		{0, 2, 2},
		{4, 2, 0},
		{1, 0, 5},
	}
	for _, tc := range cases {
		var posts []models.Post
		if err := applyPagination(db.Model(&models.Post{}), tc.page, tc.pageSize).Find(&posts).Error; err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(posts) != tc.want {
			t.Fatalf("page=%d size=%d want %d got %d", tc.page, tc.pageSize, tc.want, len(posts))
		}
	}
}

func TestUserListSearchAndPaging(t *testing.T) {
	db := openRepositoryTestDB(t)
	for _, name := range []string{"Alice", "alina", "bob"} {
		createTestUser(t, db, name)
	}
	repo := NewUserRepository(db)

	users, total, err := repo.List(UserListFilter{Keyword: "ali", Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(users) != 1 {
		t.Fatalf("want total 2 with one row, got total=%d rows=%d", total, len(users))
	}

	users, total, err = repo.List(UserListFilter{Keyword: "nobody", Page: 1, PageSize: 10})
	if err != nil || total != 0 || len(users) != 0 {
		t.Fatalf("empty search should return nothing, got %d/%d (%v)", total, len(users), err)
	}
}
