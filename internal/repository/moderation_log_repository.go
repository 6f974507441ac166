package repository

import (
	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
)

// ModerationLogRepository 审核日志数据访问接口
type ModerationLogRepository interface {
	Create(log *models.ModerationLog) error
	List(filter ModerationLogListFilter) ([]models.ModerationLog, int64, error)
}

// GormModerationLogRepository GORM 实现
type GormModerationLogRepository struct {
	db *gorm.DB
}

// NewModerationLogRepository 创建审核日志仓库
func NewModerationLogRepository(db *gorm.DB) *GormModerationLogRepository {
	return &GormModerationLogRepository{db: db}
}

// Create 创建审核日志
func (r *GormModerationLogRepository) Create(log *models.ModerationLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 管理端查询审核日志
func (r *GormModerationLogRepository) List(filter ModerationLogListFilter) ([]models.ModerationLog, int64, error) {
	query := r.db.Model(&models.ModerationLog{})
	if filter.OperatorID != 0 {
		query = query.Where("operator_id = ?", filter.OperatorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	return findPage[models.ModerationLog](query, filter.Page, filter.PageSize, "id DESC")
}
