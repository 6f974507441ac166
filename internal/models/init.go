package models

import (
	"errors"
	"strings"
	"time"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultSuperuserUsername = "admin"
	defaultSuperuserEmail    = "admin@example.com"
	defaultSuperuserPassword = "admin123"
)

// InitDefaultSuperuser 初始化默认超级用户
// 已存在同名用户时只确保其具备管理员角色与员工标记。
func InitDefaultSuperuser(username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		username = defaultSuperuserUsername
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = defaultSuperuserEmail
	}

	var existing User
	err := DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		if existing.Role != constants.RoleAdmin || !existing.IsStaff {
			if err := DB.Model(&existing).Updates(map[string]interface{}{
				"role":     constants.RoleAdmin,
				"is_staff": true,
			}).Error; err != nil {
				logger.Warnw("ensure_default_superuser_role_failed", "username", username, "error", err)
			}
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	usingDefault := password == ""
	if usingDefault {
		password = defaultSuperuserPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	user := User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          constants.RoleAdmin,
		IsStaff:       true,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	if usingDefault {
		logger.Warnw("default_superuser_created_with_default_password", "username", username)
		logger.Warnw("default_superuser_password_change_required", "username", username)
	} else {
		logger.Warnw("default_superuser_created", "username", username, "password_hidden", true)
	}
	return nil
}
