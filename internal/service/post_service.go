package service

import (
	"strings"
	"time"

	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

// PostService 文章业务服务
type PostService struct {
	repo         repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	now          func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository) *PostService {
	return &PostService{
		repo:         repo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		now:          time.Now,
	}
}

// PostInput 创建/更新文章输入
type PostInput struct {
	Title      string
	Slug       string
	Content    string
	CategoryID *uint
	TagIDs     []uint
	Status     string
	CoverImage string
}

// Home 首页最新发布的文章
func (s *PostService) Home() ([]models.Post, error) {
	return s.repo.ListLatestPublished(constants.HomeLatestPostLimit)
}

// ListPublic 公开文章列表
func (s *PostService) ListPublic(filter repository.PostListFilter) ([]models.Post, int64, error) {
	filter.OnlyPublished = true
	if filter.OrderBy == "" {
		filter.OrderBy = "published_at DESC, id DESC"
	}
	return s.repo.List(filter)
}

// ListAdmin 后台文章列表
func (s *PostService) ListAdmin(filter repository.PostListFilter) ([]models.Post, int64, error) {
	filter.OnlyPublished = false
	return s.repo.List(filter)
}

// GetDetail 文章详情并累加阅读数
// 草稿仅作者与审核员可见，其他人视为不存在。
func (s *PostService) GetDetail(id uint, viewer *models.User) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Status != constants.PostStatusPublished && !authz.CanModify(viewer, post.AuthorID) {
		return nil, ErrPostNotFound
	}
	if err := s.repo.IncrementViews(post.ID); err != nil {
		logger.Warnw("post_increment_views_failed", "post_id", post.ID, "error", err)
	} else {
		post.ViewsCount++
	}
	return post, nil
}

// GetByID 获取文章
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Create 创建文章，作者为当前用户
func (s *PostService) Create(actor *models.User, input PostInput) (*models.Post, error) {
	if !authz.CanAuthor(actor) {
		return nil, ErrPermissionDenied
	}
	now := s.now()
	post := &models.Post{
		AuthorID:  actor.ID,
		CreatedAt: now,
	}
	if err := s.apply(post, input, now); err != nil {
		return nil, err
	}
	if err := s.repo.Create(post); err != nil {
		return nil, wrapNormalizeError(err)
	}
	logger.Infow("post_created", "post_id", post.ID, "author_id", actor.ID, "status", post.Status)
	return s.GetByID(post.ID)
}

// Update 更新文章，作者本人或审核员可操作
func (s *PostService) Update(actor *models.User, id uint, input PostInput) (*models.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(actor, post.AuthorID) {
		return nil, ErrPermissionDenied
	}
	if err := s.apply(post, input, s.now()); err != nil {
		return nil, err
	}
	post.Author = nil
	post.Category = nil
	if err := s.repo.Update(post); err != nil {
		return nil, wrapNormalizeError(err)
	}
	return s.GetByID(post.ID)
}

// Delete 删除文章及其评论
func (s *PostService) Delete(actor *models.User, id uint) error {
	post, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !authz.CanModify(actor, post.AuthorID) {
		return ErrPermissionDenied
	}
	if err := s.repo.Delete(post.ID); err != nil {
		return err
	}
	logger.Infow("post_deleted", "post_id", post.ID, "operator_id", actor.ID)
	return nil
}

// apply 写入输入字段并校验分类、标签与同日 slug 唯一
func (s *PostService) apply(post *models.Post, input PostInput, now time.Time) error {
	post.Title = input.Title
	post.Slug = input.Slug
	post.Content = strings.TrimSpace(input.Content)
	post.Status = input.Status
	post.CoverImage = strings.TrimSpace(input.CoverImage)
	if post.Content == "" {
		return ErrContentRequired
	}

	post.CategoryID = nil
	if input.CategoryID != nil && *input.CategoryID != 0 {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
		id := category.ID
		post.CategoryID = &id
	}

	post.Tags = nil
	if ids := uniqueIDs(input.TagIDs); len(ids) > 0 {
		tags, err := s.tagRepo.ListByIDs(ids)
		if err != nil {
			return err
		}
		if len(tags) != len(ids) {
			return ErrTagNotFound
		}
		post.Tags = tags
	}

	if err := models.NormalizePost(post, now); err != nil {
		return wrapNormalizeError(err)
	}
	day := post.CreatedAt
	if day.IsZero() {
		day = now
	}
	count, err := s.repo.CountBySlugOnDate(post.Slug, day, post.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
