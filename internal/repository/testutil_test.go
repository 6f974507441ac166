package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Tag{}, &models.Post{}, &models.Comment{}, &models.ModerationLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         constants.RoleReader,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, repo *GormPostRepository, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "body", AuthorID: author.ID}
	if err := repo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, postID, authorID uint, parentID *uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, AuthorID: authorID, ParentID: parentID, Content: "c"}
	if err := NewCommentRepository(db).Create(comment); err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	return comment
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}
