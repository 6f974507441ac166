package repository

import (
	"errors"
	"testing"

	"github.com/inkpost/internal/models"
)

func TestUserDeleteCascadesPostsAndComments(t *testing.T) {
	db := openRepositoryTestDB(t)
	author := createTestUser(t, db, "henry")
	reader := createTestUser(t, db, "iris")
	postRepo := NewPostRepository(db)

	authorPost := createTestPost(t, postRepo, author, "Author Post")
	readerPost := createTestPost(t, postRepo, reader, "Reader Post")
	createTestComment(t, db, authorPost.ID, reader.ID, nil)
	authorComment := createTestComment(t, db, readerPost.ID, author.ID, nil)
	createTestComment(t, db, readerPost.ID, reader.ID, &authorComment.ID)
	survivor := createTestComment(t, db, readerPost.ID, reader.ID, nil)

	repo := NewUserRepository(db)
	if err := repo.Delete(author.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if got := countRows(t, db, &models.Post{}); got != 1 {
		t.Fatalf("expected only reader post to remain, got %d", got)
	}
	var remaining []models.Comment
	db.Find(&remaining)
	if len(remaining) != 1 || remaining[0].ID != survivor.ID {
		t.Fatalf("expected only survivor comment, got %+v", remaining)
	}
}

func TestUserCountsExcludeSelf(t *testing.T) {
	db := openRepositoryTestDB(t)
	user := createTestUser(t, db, "jack")
	repo := NewUserRepository(db)
	if count, _ := repo.CountByEmail("jack@example.com", 0); count != 1 {
		t.Fatalf("expected email taken, count=%d", count)
	}
	if count, _ := repo.CountByEmail("jack@example.com", user.ID); count != 0 {
		t.Fatalf("exclude id should drop own row, count=%d", count)
	}
	if count, _ := repo.CountByUsername("jack", user.ID); count != 0 {
		t.Fatalf("exclude id should drop own row, count=%d", count)
	}
	found, err := repo.GetByUsername("jack")
	if err != nil || found == nil || found.ID != user.ID {
		t.Fatalf("get by username failed: %v", err)
	}
	missing, err := repo.GetByEmail("nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("missing user should be nil,nil got %v,%v", missing, err)
	}
}

func TestUserWriteDuplicateMapsToField(t *testing.T) {
	db := openRepositoryTestDB(t)
	createTestUser(t, db, "kim")
	other := createTestUser(t, db, "lee")
	repo := NewUserRepository(db)

	dupName := &models.User{Username: "kim", Email: "fresh@example.com", PasswordHash: "x"}
	if err := repo.Create(dupName); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}
	dupEmail := &models.User{Username: "fresh", Email: "kim@example.com", PasswordHash: "x"}
	if err := repo.Create(dupEmail); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	other.Email = "kim@example.com"
	if err := repo.Update(other); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("update want ErrEmailTaken, got %v", err)
	}
	other.Email = "lee@example.com"
	other.Username = "kim"
	if err := repo.Update(other); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("update want ErrUsernameTaken, got %v", err)
	}
}
