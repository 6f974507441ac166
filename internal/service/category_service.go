package service

import (
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入，Slug 为空时由名称推导
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// List 获取分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	category := models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	}
	if err := models.NormalizeCategory(&category); err != nil {
		return nil, wrapNormalizeError(err)
	}
	if err := s.ensureUnique(&category); err != nil {
		return nil, err
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, wrapNormalizeError(err)
	}
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	category.Name = input.Name
	category.Slug = input.Slug
	category.Description = input.Description
	if err := models.NormalizeCategory(category); err != nil {
		return nil, wrapNormalizeError(err)
	}
	if err := s.ensureUnique(category); err != nil {
		return nil, err
	}
	if err := s.repo.Update(category); err != nil {
		return nil, wrapNormalizeError(err)
	}
	return category, nil
}

// Delete 删除分类，所属文章的分类置空
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return s.repo.Delete(id)
}

func (s *CategoryService) ensureUnique(category *models.Category) error {
	count, err := s.repo.CountByName(category.Name, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrNameExists
	}
	count, err = s.repo.CountBySlug(category.Slug, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}
