package repository

import (
	"errors"

	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	List() ([]models.Tag, error)
	ListByIDs(ids []uint) ([]models.Tag, error)
	GetByID(id uint) (*models.Tag, error)
	Create(tag *models.Tag) error
	Update(tag *models.Tag) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	CountByName(name string, excludeID uint) (int64, error)
}

// GormTagRepository GORM 实现
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签仓库
func NewTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// List 标签列表
func (r *GormTagRepository) List() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListByIDs 批量获取标签
func (r *GormTagRepository) ListByIDs(ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByID 根据 ID 获取标签
func (r *GormTagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// Create 创建标签
func (r *GormTagRepository) Create(tag *models.Tag) error {
	if err := models.NormalizeTag(tag); err != nil {
		return err
	}
	return r.db.Create(tag).Error
}

// Update 更新标签
func (r *GormTagRepository) Update(tag *models.Tag) error {
	if err := models.NormalizeTag(tag); err != nil {
		return err
	}
	return r.db.Save(tag).Error
}

// Delete 删除标签，仅移除与文章的关联
func (r *GormTagRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
}

// CountBySlug 统计 slug 数量
func (r *GormTagRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	return countWhere(r.db.Model(&models.Tag{}), "slug = ?", slug, excludeID)
}

// CountByName 统计名称数量
func (r *GormTagRepository) CountByName(name string, excludeID uint) (int64, error) {
	return countWhere(r.db.Model(&models.Tag{}), "name = ?", name, excludeID)
}
