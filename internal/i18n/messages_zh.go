package i18n

var messagesZH = map[string]string{
	"error.bad_request":       "请求参数错误",
	"error.unauthorized":      "请先登录",
	"error.forbidden":         "无权执行该操作",
	"error.not_found":         "资源不存在",
	"error.internal":          "服务器内部错误，请稍后重试",
	"error.too_many_requests": "尝试次数过多，请稍后再试",

	"error.user_id_invalid":      "用户 ID 无效",
	"error.user_id_type_invalid": "用户 ID 类型无效",
	"error.id_invalid":           "ID 无效",
	"error.token_invalid":        "登录状态已失效，请重新登录",
	"error.user_not_found":       "用户不存在",
	"error.user_delete_self":     "不能删除自己的账号",
	"error.post_not_found":       "文章不存在",
	"error.comment_not_found":    "评论不存在",
	"error.category_not_found":   "分类不存在",
	"error.tag_not_found":        "标签不存在",
	"error.entity_not_found":     "未知的后台实体",

	"error.email_exists":             "该邮箱已被注册",
	"error.username_exists":          "该用户名已被占用",
	"error.slug_exists":              "该 slug 已被使用",
	"error.name_exists":              "该名称已被使用",
	"error.email_invalid":            "请输入有效的邮箱地址",
	"error.username_invalid":         "用户名只能包含字母、数字以及 @/./+/-/_ 字符",
	"error.password_mismatch":        "两次输入的密码不一致",
	"error.password_weak":            "密码强度不足",
	"error.password_min_length":      "密码长度至少为 %d 位",
	"error.password_require_upper":   "密码必须包含大写字母",
	"error.password_require_lower":   "密码必须包含小写字母",
	"error.password_require_number":  "密码必须包含数字",
	"error.password_require_special": "密码必须包含特殊字符",
	"error.content_required":         "评论内容不能为空",
	"error.parent_invalid":           "回复的评论不属于该文章",
	"error.role_invalid":             "角色无效",
	"error.invalid_input":            "请修正表单中的错误",

	"error.invalid_credentials": "用户名或密码错误",
	"error.account_inactive":    "账号尚未激活，请先完成邮箱验证",
	"error.resend_too_frequent": "验证邮件刚刚发送过，请稍后再试",
	"error.captcha_required":    "请完成验证码",
	"error.captcha_invalid":     "验证码错误",
	"error.captcha_unavailable": "验证码未启用",

	"error.verify_link_invalid":   "验证链接无效",
	"error.verify_link_expired":   "验证链接已过期",
	"error.email_delivery_failed": "验证邮件发送失败，请稍后重试",

	"error.jwt_secret_missing":     "鉴权未配置",
	"error.auth_header_missing":    "请先登录",
	"error.auth_header_invalid":    "认证头格式错误",
	"error.token_revoked":          "登录已失效，请重新登录",
	"error.user_disabled":          "账号已被禁用",
	"error.rate_limited":           "请求过于频繁，请在 %d 秒后重试",
	"error.rate_limit_unavailable": "限流服务暂不可用",

	"error.comment_edit_denied":   "你无权编辑该评论",
	"error.comment_delete_denied": "你无权删除该评论",
	"error.moderation_denied":     "只有管理人员可以审核评论",
	"error.post_create_denied":    "只有作者可以发布文章",
	"error.post_edit_denied":      "你无权编辑该文章",
	"error.post_delete_denied":    "你无权删除该文章",

	"message.register_check_email":     "请查收邮件完成账号验证",
	"message.register_delivery_failed": "账号已创建，但验证邮件发送失败，请重新申请验证链接",
	"message.verification_resent":      "如果该邮箱存在未验证的账号，新的验证链接已发送",
	"message.email_verified":           "邮箱验证成功，现在可以登录了",
	"message.login_success":            "欢迎回来，%s！",
	"message.logged_out":               "已退出登录",
	"message.profile_updated":          "个人资料已更新",
	"message.comment_published":        "评论发布成功",
	"message.comment_pending":          "评论已提交，等待审核",
	"message.comment_updated":          "评论已更新",
	"message.comment_deleted":          "评论已删除",
	"message.comment_approved":         "评论已通过审核",
	"message.comments_approved":        "已批准 %d 条评论",
	"message.comments_disapproved":     "已撤回 %d 条评论",
	"message.post_created":             "文章已创建",
	"message.post_updated":             "文章已更新",
	"message.post_deleted":             "文章已删除",
	"message.saved":                    "已保存",
	"message.deleted":                  "已删除",
}
