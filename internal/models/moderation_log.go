package models

import "time"

// ModerationLog 评论审核日志
// 说明：记录审核员对评论的批准、驳回与删除操作，支持按操作人与动作检索。
type ModerationLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorID       uint      `gorm:"index;not null" json:"operator_id"`
	OperatorUsername string    `gorm:"type:varchar(150);index;not null;default:''" json:"operator_username"`
	Action           string    `gorm:"type:varchar(50);index;not null" json:"action"`
	TargetType       string    `gorm:"type:varchar(50);index;not null;default:'comment'" json:"target_type"`
	TargetIDs        UintArray `gorm:"type:json" json:"target_ids"`
	Affected         int64     `gorm:"not null;default:0" json:"affected"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (ModerationLog) TableName() string {
	return "moderation_logs"
}
