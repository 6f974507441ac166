package repository

import (
	"testing"
	"time"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
)

func TestPostCreateNormalizesAndStampsOnce(t *testing.T) {
	db := openRepositoryTestDB(t)
	author := createTestUser(t, db, "writer")
	repo := NewPostRepository(db)
	t1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return t1 }

	post := &models.Post{Title: "First Steps", Content: "x", AuthorID: author.ID}
	if err := repo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if post.Slug != "first-steps" || post.Status != constants.PostStatusDraft || post.PublishedAt != nil {
		t.Fatalf("unexpected draft state: %+v", post)
	}

	post.Status = constants.PostStatusPublished
	if err := repo.Update(post); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	repo.now = func() time.Time { return t1.Add(time.Hour) }
	post.Content = "edited"
	if err := repo.Update(post); err != nil {
		t.Fatalf("resave failed: %v", err)
	}

	stored, err := repo.GetByID(post.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.PublishedAt == nil || !stored.PublishedAt.Equal(t1) {
		t.Fatalf("published_at should remain %v, got %v", t1, stored.PublishedAt)
	}
}

func TestPostDeleteCascadesCommentsAndTags(t *testing.T) {
	db := openRepositoryTestDB(t)
	author := createTestUser(t, db, "carol")
	tagRepo := NewTagRepository(db)
	tag := &models.Tag{Name: "Go"}
	if err := tagRepo.Create(tag); err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	repo := NewPostRepository(db)
	post := &models.Post{Title: "Tagged", Content: "x", AuthorID: author.ID, Tags: []models.Tag{*tag}}
	if err := repo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	top := createTestComment(t, db, post.ID, author.ID, nil)
	createTestComment(t, db, post.ID, author.ID, &top.ID)

	if err := repo.Delete(post.ID); err != nil {
		t.Fatalf("delete post failed: %v", err)
	}
	if got := countRows(t, db, &models.Comment{}); got != 0 {
		t.Fatalf("comments should be cascaded, %d left", got)
	}
	var links int64
	db.Table("post_tags").Count(&links)
	if links != 0 {
		t.Fatalf("post_tags should be cleared, %d left", links)
	}
	if got := countRows(t, db, &models.Tag{}); got != 1 {
		t.Fatalf("tag itself must survive post deletion")
	}
}

func TestCountBySlugOnDate(t *testing.T) {
	db := openRepositoryTestDB(t)
	author := createTestUser(t, db, "dave")
	repo := NewPostRepository(db)
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return day }
	post := createTestPost(t, repo, author, "Same Title")

	count, err := repo.CountBySlugOnDate("same-title", day, 0)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 on same day, got %d err=%v", count, err)
	}
	count, _ = repo.CountBySlugOnDate("same-title", day, post.ID)
	if count != 0 {
		t.Fatalf("exclude id should drop own row, got %d", count)
	}
	count, _ = repo.CountBySlugOnDate("same-title", day.AddDate(0, 0, 1), 0)
	if count != 0 {
		t.Fatalf("next day should be free, got %d", count)
	}
}

func TestIncrementViewsAndLatestPublished(t *testing.T) {
	db := openRepositoryTestDB(t)
	author := createTestUser(t, db, "erin")
	repo := NewPostRepository(db)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		stamp := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return stamp }
		post := &models.Post{Title: "Post", Slug: "post-" + string(rune('a'+i)), AuthorID: author.ID, Content: "x", Status: constants.PostStatusPublished}
		if err := repo.Create(post); err != nil {
			t.Fatalf("create post failed: %v", err)
		}
	}
	createTestPost(t, repo, author, "Draft")

	latest, err := repo.ListLatestPublished(constants.HomeLatestPostLimit)
	if err != nil {
		t.Fatalf("list latest failed: %v", err)
	}
	if len(latest) != 5 || latest[0].Slug != "post-g" {
		t.Fatalf("unexpected latest posts: len=%d first=%s", len(latest), latest[0].Slug)
	}

	if err := repo.IncrementViews(latest[0].ID); err != nil {
		t.Fatalf("increment views failed: %v", err)
	}
	stored, _ := repo.GetByID(latest[0].ID)
	if stored.ViewsCount != 1 {
		t.Fatalf("expected views 1, got %d", stored.ViewsCount)
	}
}
