package service

import "errors"

// 错误大类，具体错误通过 errors.Is 归入其中之一
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidLink      = errors.New("invalid verification link")
	ErrLinkExpired      = errors.New("verification link expired")
	ErrDeliveryFailed   = errors.New("mail delivery failed")
)

// kindError 归属于某个错误大类的具体错误
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func newKindError(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

// 资源不存在
var (
	ErrUserNotFound     = newKindError("user not found", ErrNotFound)
	ErrPostNotFound     = newKindError("post not found", ErrNotFound)
	ErrCommentNotFound  = newKindError("comment not found", ErrNotFound)
	ErrCategoryNotFound = newKindError("category not found", ErrNotFound)
	ErrTagNotFound      = newKindError("tag not found", ErrNotFound)
)

// 校验失败
var (
	ErrEmailExists      = newKindError("email already exists", ErrValidation)
	ErrUsernameExists   = newKindError("username already exists", ErrValidation)
	ErrSlugExists       = newKindError("slug already exists", ErrValidation)
	ErrNameExists       = newKindError("name already exists", ErrValidation)
	ErrInvalidEmail     = newKindError("invalid email", ErrValidation)
	ErrInvalidUsername  = newKindError("invalid username", ErrValidation)
	ErrPasswordMismatch = newKindError("passwords do not match", ErrValidation)
	ErrWeakPassword     = newKindError("weak password", ErrValidation)
	ErrContentRequired  = newKindError("content is required", ErrValidation)
	ErrInvalidParent    = newKindError("parent comment does not belong to post", ErrValidation)
	ErrInvalidRole      = newKindError("invalid role", ErrValidation)
	ErrDeleteSelf       = newKindError("cannot delete own account", ErrValidation)
	ErrInvalidInput     = newKindError("invalid input", ErrValidation)
)

// 邮件投递失败
var (
	ErrEmailServiceDisabled      = newKindError("email service disabled", ErrDeliveryFailed)
	ErrEmailServiceNotConfigured = newKindError("email service not configured", ErrDeliveryFailed)
	ErrEmailRecipientRejected    = newKindError("email recipient rejected", ErrDeliveryFailed)
)

// 登录与会话
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
	ErrResendTooFrequent  = errors.New("verification resend too frequent")
	ErrInvalidToken       = errors.New("invalid token")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrCaptchaUnavailable = errors.New("captcha unavailable")
)
