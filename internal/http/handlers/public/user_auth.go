package public

import (
	"errors"
	"time"

	"github.com/inkpost/internal/constants"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Username        string                              `json:"username" binding:"required"`
	Email           string                              `json:"email" binding:"required"`
	Password        string                              `json:"password" binding:"required"`
	PasswordConfirm string                              `json:"password_confirm" binding:"required"`
	CaptchaPayload  handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Register 用户注册，账号在邮箱验证前保持未激活
func (h *Handler) Register(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.AccountService.Register(service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Captcha:         req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		// 账号已创建但邮件未送达，提示用户重新申请验证链接
		if user != nil && errors.Is(err, service.ErrDeliveryFailed) {
			respondError(c, response.CodeDeliveryFailed, "message.register_delivery_failed", err)
			return
		}
		respondServiceError(c, err)
		return
	}

	response.SuccessWithMessages(c, gin.H{"user": userView(user)}, []response.Message{
		handlershared.Notice(c, constants.MessageLevelInfo, "message.register_check_email"),
	})
}

// VerifyEmail 校验邮箱验证链接并激活账号
func (h *Handler) VerifyEmail(c *gin.Context) {
	user, err := h.VerificationService.Verify(c.Param("uid"), c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	successNotice(c, gin.H{"user": userView(user)}, "message.email_verified")
}

// ResendVerificationRequest 重发验证邮件请求
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResendVerification 重新发送验证邮件
// 邮箱不存在或已验证时同样返回成功，避免暴露账号状态。
func (h *Handler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.VerificationService.Resend(req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMessages(c, gin.H{"sent": true}, []response.Message{
		handlershared.Notice(c, constants.MessageLevelInfo, "message.verification_resent"),
	})
}

// UserLoginRequest 登录请求，username 可填写用户名或邮箱
type UserLoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	RememberMe     bool                                `json:"remember_me"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.AccountService.Login(service.LoginInput{
		Identifier: req.Username,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		Captcha:    req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	successNotice(c, gin.H{
		"user":       userView(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}, "message.login_success", user.Username)
}

// GetCurrentUser 当前用户资料
func (h *Handler) GetCurrentUser(c *gin.Context) {
	current, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.AccountService.GetUserByID(current.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, userView(user))
}

// UpdateProfileRequest 资料更新请求，缺省字段保持不变
type UpdateProfileRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Bio          *string `json:"bio"`
	Location     *string `json:"location"`
	BirthDate    *string `json:"birth_date"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	current, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.AccountService.UpdateProfile(current.ID, service.ProfileInput{
		Username:     req.Username,
		Email:        req.Email,
		Bio:          req.Bio,
		Location:     req.Location,
		BirthDate:    req.BirthDate,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	successNotice(c, userView(user), "message.profile_updated")
}

// Logout 注销当前用户的全部登录态
func (h *Handler) Logout(c *gin.Context) {
	current, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.AccountService.Logout(current.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMessages(c, gin.H{"logged_out": true}, []response.Message{
		handlershared.Notice(c, constants.MessageLevelInfo, "message.logged_out"),
	})
}

func userView(user *models.User) gin.H {
	if user == nil {
		return gin.H{}
	}
	return gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"role":           user.Role,
		"is_staff":       user.IsStaff,
		"is_active":      user.IsActive,
		"email_verified": user.EmailVerified,
		"bio":            user.Bio,
		"location":       user.Location,
		"birth_date":     formatDate(user.BirthDate),
		"profile_image":  user.ProfileImage,
		"last_login_at":  user.LastLoginAt,
		"created_at":     user.CreatedAt,
	}
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}
