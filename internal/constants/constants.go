package constants

// Role 用户角色，按能力从低到高排列
type Role string

// 用户角色常量
const (
	RoleReader Role = "reader"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

var roleRank = map[Role]int{
	RoleReader: 1,
	RoleAuthor: 2,
	RoleAdmin:  3,
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// RoleAtLeast 判断 role 是否具备 min 的全部能力（admin ⊇ author ⊇ reader）
func RoleAtLeast(role, min Role) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	return have >= roleRank[min]
}

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// 评论状态（仅用于展示，不落库）
const (
	CommentStatePending  = "pending"
	CommentStateApproved = "approved"
)

// 消息级别常量
const (
	MessageLevelSuccess = "success"
	MessageLevelInfo    = "info"
	MessageLevelWarning = "warning"
	MessageLevelError   = "error"
)

// 审核日志动作常量
const (
	ModerationActionApprove        = "approve"
	ModerationActionDelete         = "delete"
	ModerationActionBulkApprove    = "bulk_approve"
	ModerationActionBulkDisapprove = "bulk_disapprove"
)

// 验证链接有效期（小时）
const VerificationLinkTTLHours = 24

// 首页最新文章数量
const HomeLatestPostLimit = 5

// 后台列表内容预览长度
const ContentPreviewLength = 50

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskCommentPendingNotice = "comment:pending_notice"
)

// 验证码场景
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)
