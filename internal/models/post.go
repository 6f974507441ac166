package models

import "time"

// Post 文章表
type Post struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string     `gorm:"type:varchar(200);not null;index" json:"slug"` // 同一创建日期内唯一
	Content     string     `gorm:"type:text;not null" json:"content"`
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CategoryID  *uint      `gorm:"index" json:"category_id"` // 分类删除后置空
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags;" json:"tags"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CoverImage  string     `gorm:"type:varchar(500)" json:"cover_image"`
	ViewsCount  uint       `gorm:"not null;default:0" json:"views_count"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"` // 首次发布时写入
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// PublishedRecently 是否在最近一天内发布
func (p *Post) PublishedRecently(now time.Time) bool {
	if p == nil || p.PublishedAt == nil {
		return false
	}
	return !p.PublishedAt.After(now) && now.Sub(*p.PublishedAt) <= 24*time.Hour
}
