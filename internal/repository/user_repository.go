package repository

import (
	"errors"
	"strings"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"

	"gorm.io/gorm"
)

// 唯一约束冲突，由数据库约束兜底并发写入
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	ListByIDs(ids []uint) ([]models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	ListModerators() ([]models.User, error)
	CountByEmail(email string, excludeID uint) (int64, error)
	CountByUsername(username string, excludeID uint) (int64, error)
	Delete(id uint) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", email)
}

// GetByUsername 根据用户名获取用户
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("username = ?", username)
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first("id = ?", id)
}

func (r *GormUserRepository) first(cond string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.Where(cond, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByIDs 批量获取用户
func (r *GormUserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.translateWriteError(user, r.db.Create(user).Error)
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.translateWriteError(user, r.db.Save(user).Error)
}

// translateWriteError 将唯一键冲突映射为具体字段
func (r *GormUserRepository) translateWriteError(user *models.User, err error) error {
	if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	count, countErr := r.CountByUsername(user.Username, user.ID)
	if countErr != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildContainsCondition(r.db, "username", "email")
		query = query.Where(condition, repeatLikeArgs(containsPattern(keyword), argCount)...)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsStaff != nil {
		query = query.Where("is_staff = ?", *filter.IsStaff)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	return findPage[models.User](query, filter.Page, filter.PageSize, "id DESC")
}

// ListModerators 获取可审核评论的活跃用户
func (r *GormUserRepository) ListModerators() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("is_active = ?", true).
		Where("is_staff = ? OR role = ?", true, constants.RoleAdmin).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountByEmail 统计邮箱占用数，excludeID 为 0 时不排除
func (r *GormUserRepository) CountByEmail(email string, excludeID uint) (int64, error) {
	return r.countBy("email = ?", email, excludeID)
}

// CountByUsername 统计用户名占用数
func (r *GormUserRepository) CountByUsername(username string, excludeID uint) (int64, error) {
	return r.countBy("username = ?", username, excludeID)
}

func (r *GormUserRepository) countBy(cond string, arg interface{}, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where(cond, arg)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete 删除用户，同时删除其文章（含文章下全部评论）与其评论（含回复子树）
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := deletePostsTx(tx, postIDs); err != nil {
			return err
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("author_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if _, err := deleteCommentTreesTx(tx, commentIDs); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
