package models

// Tag 标签表
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}
