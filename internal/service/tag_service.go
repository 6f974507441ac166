package service

import (
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

// TagService 标签业务服务
type TagService struct {
	repo repository.TagRepository
}

// NewTagService 创建标签服务
func NewTagService(repo repository.TagRepository) *TagService {
	return &TagService{repo: repo}
}

// TagInput 创建/更新标签输入
type TagInput struct {
	Name string
	Slug string
}

// List 获取标签列表
func (s *TagService) List() ([]models.Tag, error) {
	return s.repo.List()
}

// Create 创建标签
func (s *TagService) Create(input TagInput) (*models.Tag, error) {
	tag := models.Tag{Name: input.Name, Slug: input.Slug}
	if err := models.NormalizeTag(&tag); err != nil {
		return nil, wrapNormalizeError(err)
	}
	if err := s.ensureUnique(&tag); err != nil {
		return nil, err
	}
	if err := s.repo.Create(&tag); err != nil {
		return nil, wrapNormalizeError(err)
	}
	return &tag, nil
}

// Update 更新标签
func (s *TagService) Update(id uint, input TagInput) (*models.Tag, error) {
	tag, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	tag.Name = input.Name
	tag.Slug = input.Slug
	if err := models.NormalizeTag(tag); err != nil {
		return nil, wrapNormalizeError(err)
	}
	if err := s.ensureUnique(tag); err != nil {
		return nil, err
	}
	if err := s.repo.Update(tag); err != nil {
		return nil, wrapNormalizeError(err)
	}
	return tag, nil
}

// Delete 删除标签，仅移除文章关联
func (s *TagService) Delete(id uint) error {
	tag, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrTagNotFound
	}
	return s.repo.Delete(id)
}

func (s *TagService) ensureUnique(tag *models.Tag) error {
	count, err := s.repo.CountByName(tag.Name, tag.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrNameExists
	}
	count, err = s.repo.CountBySlug(tag.Slug, tag.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}
