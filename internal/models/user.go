package models

import (
	"time"

	"github.com/inkpost/internal/constants"
)

// User 用户表
// 说明：注册后 IsActive 保持 false，直到邮箱验证通过；VerificationToken 为空表示当前没有待验证的链接。
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Username           string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email              string         `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	Role               constants.Role `gorm:"type:varchar(20);not null;default:'reader';index" json:"role"`
	IsStaff            bool           `gorm:"not null;default:false" json:"is_staff"`
	IsActive           bool           `gorm:"not null;default:false;index" json:"is_active"`
	EmailVerified      bool           `gorm:"not null;default:false" json:"email_verified"`
	VerificationToken  string         `gorm:"type:varchar(128);not null;default:''" json:"-"`
	VerificationSentAt *time.Time     `json:"-"`
	Bio                string         `gorm:"type:text" json:"bio"`
	Location           string         `gorm:"type:varchar(100)" json:"location"`
	BirthDate          *time.Time     `json:"birth_date"`
	ProfileImage       string         `gorm:"type:varchar(500)" json:"profile_image"`
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
