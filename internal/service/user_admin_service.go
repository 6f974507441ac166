package service

import (
	"context"
	"strings"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

// UserAdminService 后台用户管理
type UserAdminService struct {
	repo repository.UserRepository
}

// NewUserAdminService 创建后台用户管理服务
func NewUserAdminService(repo repository.UserRepository) *UserAdminService {
	return &UserAdminService{repo: repo}
}

// UserAdminUpdateInput 后台更新用户参数，nil 表示不修改
type UserAdminUpdateInput struct {
	Role     *string
	IsStaff  *bool
	IsActive *bool
}

// List 用户列表
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}

// Update 更新用户角色与状态
// 停用或变更权限后递增 TokenVersion，已签发的 token 立即失效。
func (s *UserAdminService) Update(id uint, input UserAdminUpdateInput, operator *models.User) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	revoke := false
	if input.Role != nil {
		role := constants.Role(strings.ToLower(strings.TrimSpace(*input.Role)))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		if role != user.Role {
			user.Role = role
			revoke = true
		}
	}
	if input.IsStaff != nil && *input.IsStaff != user.IsStaff {
		user.IsStaff = *input.IsStaff
		revoke = true
	}
	if input.IsActive != nil && *input.IsActive != user.IsActive {
		user.IsActive = *input.IsActive
		if !user.IsActive {
			revoke = true
		}
	}

	now := time.Now()
	if revoke {
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	user.UpdatedAt = now
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	operatorID := uint(0)
	if operator != nil {
		operatorID = operator.ID
	}
	logger.Infow("admin_user_updated",
		"user_id", user.ID,
		"operator_id", operatorID,
		"role", user.Role,
		"is_staff", user.IsStaff,
		"is_active", user.IsActive,
	)
	return user, nil
}

// Delete 删除用户，其文章、评论及回复一并删除
func (s *UserAdminService) Delete(id uint, operator *models.User) error {
	if operator != nil && operator.ID == id {
		return ErrDeleteSelf
	}
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), id)

	operatorID := uint(0)
	if operator != nil {
		operatorID = operator.ID
	}
	logger.Infow("admin_user_deleted", "user_id", id, "username", user.Username, "operator_id", operatorID)
	return nil
}
