package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	ListLatestPublished(limit int) ([]models.Post, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	CountBySlugOnDate(slug string, day time.Time, excludeID uint) (int64, error)
	IncrementViews(id uint) error
}

// GormPostRepository GORM 实现
// 每次写入前调用 models.NormalizePost 完成 slug 推导与发布时间写入。
type GormPostRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db, now: time.Now}
}

// List 文章列表
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if filter.OnlyPublished {
		query = query.Where("status = ?", constants.PostStatusPublished)
	} else if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.TagID != 0 {
		query = query.Where("id IN (?)", r.db.Table("post_tags").Select("post_id").Where("tag_id = ?", filter.TagID))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildContainsCondition(r.db, "title", "slug")
		query = query.Where(condition, repeatLikeArgs(containsPattern(search), argCount)...)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	return findPage[models.Post](query, filter.Page, filter.PageSize, orderBy, "Author", "Category", "Tags")
}

// ListLatestPublished 最新发布的文章
func (r *GormPostRepository) ListLatestPublished(limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = constants.HomeLatestPostLimit
	}
	var posts []models.Post
	err := r.db.Preload("Author").Preload("Category").Preload("Tags").
		Where("status = ?", constants.PostStatusPublished).
		Order("published_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID 根据 ID 获取文章
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Preload("Category").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章
func (r *GormPostRepository) Create(post *models.Post) error {
	now := r.now()
	if err := models.NormalizePost(post, now); err != nil {
		return err
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return replacePostTagsTx(tx, post)
	})
}

// Update 更新文章
func (r *GormPostRepository) Update(post *models.Post) error {
	if err := models.NormalizePost(post, r.now()); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}
		return replacePostTagsTx(tx, post)
	})
}

// Delete 删除文章及其全部评论
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deletePostsTx(tx, []uint{id})
	})
}

// CountBySlugOnDate 统计同一创建日期内的 slug 数量
func (r *GormPostRepository) CountBySlugOnDate(slug string, day time.Time, excludeID uint) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	query := r.db.Model(&models.Post{}).
		Where("slug = ?", slug).
		Where("created_at >= ? AND created_at < ?", start, end)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementViews 阅读数加一
func (r *GormPostRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}

func replacePostTagsTx(tx *gorm.DB, post *models.Post) error {
	association := tx.Model(post).Association("Tags")
	if len(post.Tags) == 0 {
		return association.Clear()
	}
	return association.Replace(post.Tags)
}

// deletePostsTx 删除文章、文章评论与标签关联
func deletePostsTx(tx *gorm.DB, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM post_tags WHERE post_id IN ?", postIDs).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error
}
