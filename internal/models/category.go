package models

import "time"

// Category 分类表
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // 缺省时由名称生成
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
