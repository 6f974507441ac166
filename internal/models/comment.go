package models

import "time"

// Comment 评论表
// 说明：ParentID 为空表示顶层评论；删除父评论时整棵回复子树一并删除。
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Approved  bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
