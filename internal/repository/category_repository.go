package repository

import (
	"errors"

	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	CountByName(name string, excludeID uint) (int64, error)
	CountPosts(categoryID uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 分类列表
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	if err := models.NormalizeCategory(category); err != nil {
		return err
	}
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	if err := models.NormalizeCategory(category); err != nil {
		return err
	}
	return r.db.Save(category).Error
}

// Delete 删除分类，引用该分类的文章 category_id 置空
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

// CountBySlug 统计 slug 数量
func (r *GormCategoryRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	return countWhere(r.db.Model(&models.Category{}), "slug = ?", slug, excludeID)
}

// CountByName 统计名称数量
func (r *GormCategoryRepository) CountByName(name string, excludeID uint) (int64, error) {
	return countWhere(r.db.Model(&models.Category{}), "name = ?", name, excludeID)
}

// CountPosts 统计某分类下文章数
func (r *GormCategoryRepository) CountPosts(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func countWhere(query *gorm.DB, cond string, arg interface{}, excludeID uint) (int64, error) {
	query = query.Where(cond, arg)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
