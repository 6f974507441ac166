package service

import (
	"errors"
	"testing"

	"github.com/inkpost/internal/constants"
)

func TestPostCreatePermissions(t *testing.T) {
	env := newServiceTestEnv(t)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	staffReader := env.createUser(t, "staff", constants.RoleReader, true)
	author := env.createUser(t, "author", constants.RoleAuthor, false)

	input := PostInput{Title: "Gated", Content: "body"}
	if _, err := env.posts.Create(reader, input); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("reader should not publish, got %v", err)
	}
	if _, err := env.posts.Create(nil, input); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("anonymous should not publish, got %v", err)
	}
	if _, err := env.posts.Create(staffReader, PostInput{Title: "Staff post", Content: "body"}); err != nil {
		t.Fatalf("staff should publish: %v", err)
	}
	post, err := env.posts.Create(author, input)
	if err != nil {
		t.Fatalf("author should publish: %v", err)
	}
	if post.Slug != "gated" || post.Status != constants.PostStatusDraft || post.AuthorID != author.ID {
		t.Fatalf("unexpected post: %+v", post)
	}

	other := env.createUser(t, "other", constants.RoleAuthor, false)
	if _, err := env.posts.Update(other, post.ID, input); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("other author must not edit, got %v", err)
	}
	if err := env.posts.Delete(other, post.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("other author must not delete, got %v", err)
	}
	if err := env.posts.Delete(staffReader, post.ID); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
	if _, err := env.posts.GetByID(post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("want ErrPostNotFound, got %v", err)
	}
}

func TestPostSlugUniquePerDay(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	env.createPost(t, author, "Same Title")
	if _, err := env.posts.Create(author, PostInput{Title: "Same Title", Content: "again"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("want ErrSlugExists, got %v", err)
	}
	if _, err := env.posts.Create(author, PostInput{Title: "Same Title", Slug: "same-title-2", Content: "again"}); err != nil {
		t.Fatalf("explicit slug should succeed: %v", err)
	}
	if _, err := env.posts.Create(author, PostInput{Title: "   ", Content: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title should be a validation error, got %v", err)
	}
	if _, err := env.posts.Create(author, PostInput{Title: "Bad", Content: "x", Status: "archived"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status should be a validation error, got %v", err)
	}
}

func TestPostCategoryAndTags(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	category, err := env.categories.Create(CategoryInput{Name: "Go Notes"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	tagA, _ := env.tags.Create(TagInput{Name: "Concurrency"})
	tagB, _ := env.tags.Create(TagInput{Name: "Testing"})

	categoryID := category.ID
	post, err := env.posts.Create(author, PostInput{
		Title:      "Channels",
		Content:    "body",
		CategoryID: &categoryID,
		TagIDs:     []uint{tagA.ID, tagB.ID, tagA.ID},
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if post.CategoryID == nil || *post.CategoryID != category.ID || len(post.Tags) != 2 {
		t.Fatalf("associations not stored: %+v", post)
	}

	missing := uint(9999)
	if _, err := env.posts.Create(author, PostInput{Title: "X", Content: "x", CategoryID: &missing}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("want ErrCategoryNotFound, got %v", err)
	}
	if _, err := env.posts.Create(author, PostInput{Title: "Y", Content: "y", TagIDs: []uint{9999}}); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("want ErrTagNotFound, got %v", err)
	}

	if err := env.categories.Delete(category.ID); err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
	reloaded, _ := env.posts.GetByID(post.ID)
	if reloaded.CategoryID != nil {
		t.Fatalf("category delete should null the post category")
	}
	if err := env.tags.Delete(tagA.ID); err != nil {
		t.Fatalf("delete tag failed: %v", err)
	}
	reloaded, _ = env.posts.GetByID(post.ID)
	if len(reloaded.Tags) != 1 || reloaded.Tags[0].ID != tagB.ID {
		t.Fatalf("tag delete should only drop its association: %+v", reloaded.Tags)
	}
}

func TestPostDetailVisibilityAndViews(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	draft, _ := env.posts.Create(author, PostInput{Title: "Draft", Content: "wip"})
	live := env.createPost(t, author, "Live")

	if _, err := env.posts.GetDetail(draft.ID, reader); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("draft should be hidden from readers, got %v", err)
	}
	if _, err := env.posts.GetDetail(draft.ID, nil); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("draft should be hidden from anonymous visitors, got %v", err)
	}
	if _, err := env.posts.GetDetail(draft.ID, author); err != nil {
		t.Fatalf("author should see own draft: %v", err)
	}

	for i := 1; i <= 3; i++ {
		detail, err := env.posts.GetDetail(live.ID, nil)
		if err != nil {
			t.Fatalf("detail failed: %v", err)
		}
		if detail.ViewsCount != uint(i) {
			t.Fatalf("views = %d, want %d", detail.ViewsCount, i)
		}
	}
}

func TestHomeListsLatestFivePublished(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	for _, title := range []string{"One", "Two", "Three", "Four", "Five", "Six"} {
		env.createPost(t, author, title)
	}
	if _, err := env.posts.Create(author, PostInput{Title: "Hidden draft", Content: "x"}); err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	posts, err := env.posts.Home()
	if err != nil {
		t.Fatalf("home failed: %v", err)
	}
	if len(posts) != constants.HomeLatestPostLimit {
		t.Fatalf("home posts = %d", len(posts))
	}
	if posts[0].Title != "Six" {
		t.Fatalf("latest post first, got %s", posts[0].Title)
	}
	for _, post := range posts {
		if post.Status != constants.PostStatusPublished {
			t.Fatalf("home must only list published posts")
		}
	}
}

func TestCategoryAndTagUniqueness(t *testing.T) {
	env := newServiceTestEnv(t)
	category, err := env.categories.Create(CategoryInput{Name: "My Category"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if category.Slug != "my-category" {
		t.Fatalf("slug = %s", category.Slug)
	}
	explicit, err := env.categories.Create(CategoryInput{Name: "Other", Slug: "Custom_Slug"})
	if err != nil || explicit.Slug != "Custom_Slug" {
		t.Fatalf("explicit slug should be kept: %+v, %v", explicit, err)
	}
	if _, err := env.categories.Create(CategoryInput{Name: "My Category"}); !errors.Is(err, ErrNameExists) {
		t.Fatalf("want ErrNameExists, got %v", err)
	}
	if _, err := env.categories.Create(CategoryInput{Name: "Another", Slug: "my-category"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("want ErrSlugExists, got %v", err)
	}
	if _, err := env.categories.Update(category.ID, CategoryInput{Name: "My Category", Description: "kept"}); err != nil {
		t.Fatalf("self update should not conflict: %v", err)
	}
	if _, err := env.categories.Update(9999, CategoryInput{Name: "x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("want ErrCategoryNotFound, got %v", err)
	}

	tag, err := env.tags.Create(TagInput{Name: "Go Lang"})
	if err != nil || tag.Slug != "go-lang" {
		t.Fatalf("tag slug: %+v, %v", tag, err)
	}
	if _, err := env.tags.Create(TagInput{Name: "go lang 2", Slug: "go-lang"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("want ErrSlugExists, got %v", err)
	}
	if _, err := env.tags.Create(TagInput{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name should be a validation error, got %v", err)
	}
}
