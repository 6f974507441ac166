package models

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/inkpost/internal/constants"

	"golang.org/x/text/unicode/norm"
)

// 写入前规范化失败
var (
	ErrNameRequired  = errors.New("name is required")
	ErrTitleRequired = errors.New("title is required")
	ErrSlugEmpty     = errors.New("slug cannot be derived")
	ErrInvalidStatus = errors.New("invalid post status")
)

// Slugify 将名称转换为 URL 安全的小写短横线标识
// 非 ASCII 字符先做兼容分解再丢弃，"My Category" -> "my-category"。
func Slugify(value string) string {
	decomposed := norm.NFKD.String(value)
	var b strings.Builder
	b.Grow(len(decomposed))
	pendingDash := false
	for _, r := range decomposed {
		if r > unicode.MaxASCII {
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		case r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_")
}

// NormalizeCategory 分类写入前规范化
func NormalizeCategory(category *Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return ErrNameRequired
	}
	category.Description = strings.TrimSpace(category.Description)
	slug, err := normalizeSlug(category.Slug, category.Name)
	if err != nil {
		return err
	}
	category.Slug = slug
	return nil
}

// NormalizeTag 标签写入前规范化
func NormalizeTag(tag *Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return ErrNameRequired
	}
	slug, err := normalizeSlug(tag.Slug, tag.Name)
	if err != nil {
		return err
	}
	tag.Slug = slug
	return nil
}

// NormalizePost 文章写入前规范化
// 首次进入 published 状态时写入 PublishedAt，已有值不会被覆盖。
func NormalizePost(post *Post, now time.Time) error {
	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return ErrTitleRequired
	}
	slug, err := normalizeSlug(post.Slug, post.Title)
	if err != nil {
		return err
	}
	post.Slug = slug

	post.Status = strings.ToLower(strings.TrimSpace(post.Status))
	switch post.Status {
	case "":
		post.Status = constants.PostStatusDraft
	case constants.PostStatusDraft, constants.PostStatusPublished:
	default:
		return ErrInvalidStatus
	}
	if post.Status == constants.PostStatusPublished && post.PublishedAt == nil {
		stamp := now
		post.PublishedAt = &stamp
	}
	post.UpdatedAt = now
	return nil
}

func normalizeSlug(explicit, source string) (string, error) {
	if slug := strings.TrimSpace(explicit); slug != "" {
		return slug, nil
	}
	slug := Slugify(source)
	if slug == "" {
		return "", ErrSlugEmpty
	}
	return slug, nil
}
