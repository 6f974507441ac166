package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	IsStaff  *bool
	IsActive *bool
}

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page          int
	PageSize      int
	AuthorID      uint
	CategoryID    uint
	TagID         uint
	Status        string
	Search        string
	OnlyPublished bool
	OrderBy       string
}

// CommentListFilter 查询评论列表的过滤条件
type CommentListFilter struct {
	Page     int
	PageSize int
	PostID   uint
	AuthorID uint
	Approved *bool
	Keyword  string
}

// ModerationLogListFilter 查询审核日志的过滤条件
type ModerationLogListFilter struct {
	Page        int
	PageSize    int
	OperatorID  uint
	Action      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
