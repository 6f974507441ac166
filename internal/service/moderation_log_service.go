package service

import (
	"strings"
	"time"

	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

// ModerationRecordInput 审核日志记录输入
type ModerationRecordInput struct {
	Operator   *models.User
	Action     string
	TargetType string
	TargetIDs  []uint
	Affected   int64
	RequestID  string
	Detail     models.JSON
}

// ModerationLogService 评论审核日志服务
type ModerationLogService struct {
	repo repository.ModerationLogRepository
}

// NewModerationLogService 创建审核日志服务
func NewModerationLogService(repo repository.ModerationLogRepository) *ModerationLogService {
	return &ModerationLogService{repo: repo}
}

// Record 记录审核日志
func (s *ModerationLogService) Record(input ModerationRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Operator == nil || input.Operator.ID == 0 {
		return nil
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil
	}
	targetType := strings.TrimSpace(input.TargetType)
	if targetType == "" {
		targetType = "comment"
	}
	item := &models.ModerationLog{
		OperatorID:       input.Operator.ID,
		OperatorUsername: input.Operator.Username,
		Action:           strings.TrimSpace(input.Action),
		TargetType:       targetType,
		TargetIDs:        models.UintArray(input.TargetIDs),
		Affected:         input.Affected,
		RequestID:        strings.TrimSpace(input.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	}
	return s.repo.Create(item)
}

// List 审核日志列表
func (s *ModerationLogService) List(filter repository.ModerationLogListFilter) ([]models.ModerationLog, int64, error) {
	return s.repo.List(filter)
}
