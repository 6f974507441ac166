package shared

import (
	"errors"

	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/i18n"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapKeyedError(code, key, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"key", appErr.Key,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// ErrorRule 业务错误到接口错误响应的映射
type ErrorRule struct {
	Target error
	Code   int
	Key    string
}

// keyedError 自带消息键与参数的业务错误，例如密码策略
type keyedError interface {
	Key() string
	Args() []interface{}
}

// 先匹配具体错误，再匹配错误大类
var serviceErrorRules = []ErrorRule{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrPostNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"},
	{Target: service.ErrCommentNotFound, Code: response.CodeNotFound, Key: "error.comment_not_found"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrTagNotFound, Code: response.CodeNotFound, Key: "error.tag_not_found"},
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Key: "error.email_exists"},
	{Target: service.ErrUsernameExists, Code: response.CodeBadRequest, Key: "error.username_exists"},
	{Target: service.ErrSlugExists, Code: response.CodeBadRequest, Key: "error.slug_exists"},
	{Target: service.ErrNameExists, Code: response.CodeBadRequest, Key: "error.name_exists"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrInvalidUsername, Code: response.CodeBadRequest, Key: "error.username_invalid"},
	{Target: service.ErrPasswordMismatch, Code: response.CodeBadRequest, Key: "error.password_mismatch"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrContentRequired, Code: response.CodeBadRequest, Key: "error.content_required"},
	{Target: service.ErrInvalidParent, Code: response.CodeBadRequest, Key: "error.parent_invalid"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrDeleteSelf, Code: response.CodeBadRequest, Key: "error.user_delete_self"},
	{Target: service.ErrInvalidLink, Code: response.CodeBadRequest, Key: "error.verify_link_invalid"},
	{Target: service.ErrLinkExpired, Code: response.CodeLinkExpired, Key: "error.verify_link_expired"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrAccountInactive, Code: response.CodeForbidden, Key: "error.account_inactive"},
	{Target: service.ErrResendTooFrequent, Code: response.CodeTooManyRequests, Key: "error.resend_too_frequent"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.token_invalid"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaUnavailable, Code: response.CodeBadRequest, Key: "error.captcha_unavailable"},
	{Target: service.ErrDeliveryFailed, Code: response.CodeDeliveryFailed, Key: "error.email_delivery_failed"},
	{Target: service.ErrPermissionDenied, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.invalid_input"},
}

// RespondServiceError 按 errors.Is 将业务错误映射为响应，overrides 优先于默认规则。
// 未命中任何规则时返回 500 并记录原始错误。
func RespondServiceError(c *gin.Context, err error, overrides ...ErrorRule) {
	if err == nil {
		return
	}
	var keyed keyedError
	if errors.As(err, &keyed) {
		locale := i18n.ResolveLocale(c)
		response.Error(c, response.CodeBadRequest, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...))
		return
	}
	if rule, ok := MatchErrorRule(err, overrides...); ok {
		// 投递失败需要保留原始错误用于排查
		if rule.Code == response.CodeDeliveryFailed {
			RespondError(c, rule.Code, rule.Key, err)
			return
		}
		RespondError(c, rule.Code, rule.Key, nil)
		return
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}

// MatchErrorRule 查找首个匹配的映射规则
func MatchErrorRule(err error, overrides ...ErrorRule) (ErrorRule, bool) {
	for _, group := range [][]ErrorRule{overrides, serviceErrorRules} {
		for _, rule := range group {
			if errors.Is(err, rule.Target) {
				return rule, true
			}
		}
	}
	return ErrorRule{}, false
}
