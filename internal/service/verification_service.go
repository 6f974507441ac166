package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

const verificationTokenBytes = 32

const verificationEmailSubject = "Verify Your Email Address"

// VerificationService 邮箱验证流程
// 状态：未验证未激活 -> 已验证已激活；链接超过有效期后只能重新申请。
type VerificationService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	mailer   Mailer
	now      func() time.Time
}

// NewVerificationService 创建邮箱验证服务
func NewVerificationService(cfg *config.Config, userRepo repository.UserRepository, mailer Mailer) *VerificationService {
	return &VerificationService{
		cfg:      cfg,
		userRepo: userRepo,
		mailer:   mailer,
		now:      time.Now,
	}
}

// IssueToken 生成新的验证令牌并记录发送时间，旧令牌随即失效
func (s *VerificationService) IssueToken(user *models.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", ErrUserNotFound
	}
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	now := s.now()
	user.VerificationToken = token
	user.VerificationSentAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return "", err
	}
	return token, nil
}

// SendVerification 发送验证邮件，投递失败原样向上返回
func (s *VerificationService) SendVerification(user *models.User, token string) error {
	if s.mailer == nil {
		return ErrEmailServiceNotConfigured
	}
	link := s.BuildVerificationLink(user.ID, token)
	body := buildVerificationBody(user.Username, link, s.siteName())
	if err := s.mailer.Send(verificationEmailSubject, body, "", []string{user.Email}); err != nil {
		logger.Warnw("verify_email_delivery_failed",
			"user_id", user.ID,
			"email", user.Email,
			"error", err,
		)
		if errors.Is(err, ErrDeliveryFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	logger.Infow("verify_email_sent", "user_id", user.ID)
	return nil
}

// IssueAndSend 生成令牌并发送验证邮件
func (s *VerificationService) IssueAndSend(user *models.User) error {
	token, err := s.IssueToken(user)
	if err != nil {
		return err
	}
	return s.SendVerification(user, token)
}

// Verify 校验验证链接并激活账号
func (s *VerificationService) Verify(encodedID, token string) (*models.User, error) {
	userID, err := DecodeUserID(encodedID)
	if err != nil {
		return nil, ErrInvalidLink
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidLink
	}
	if user.VerificationToken == "" || token == "" {
		return nil, ErrInvalidLink
	}
	if subtle.ConstantTimeCompare([]byte(user.VerificationToken), []byte(token)) != 1 {
		return nil, ErrInvalidLink
	}
	if user.VerificationSentAt == nil {
		return nil, ErrInvalidLink
	}

	now := s.now()
	elapsedDays := int(now.Sub(*user.VerificationSentAt) / (constants.VerificationLinkTTLHours * time.Hour))
	if elapsedDays >= 1 {
		return nil, ErrLinkExpired
	}

	user.EmailVerified = true
	user.IsActive = true
	user.VerificationToken = ""
	user.VerificationSentAt = nil
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("verify_email_succeeded", "user_id", user.ID)
	return user, nil
}

// Resend 为未验证账号重新签发验证链接
// 邮箱不存在或已验证时静默成功，避免暴露账号是否存在。
func (s *VerificationService) Resend(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil || user.EmailVerified {
		return nil
	}
	if user.VerificationSentAt != nil {
		interval := time.Duration(resolveResendIntervalSeconds(s.cfg.Verification)) * time.Second
		if s.now().Sub(*user.VerificationSentAt) < interval {
			return ErrResendTooFrequent
		}
	}
	return s.IssueAndSend(user)
}

// BuildVerificationLink 拼接验证链接
func (s *VerificationService) BuildVerificationLink(userID uint, token string) string {
	base := ""
	if s.cfg != nil {
		base = strings.TrimRight(strings.TrimSpace(s.cfg.Site.BaseURL), "/")
	}
	return fmt.Sprintf("%s/api/v1/auth/verify-email/%s/%s", base, EncodeUserID(userID), token)
}

func (s *VerificationService) siteName() string {
	if s.cfg == nil || strings.TrimSpace(s.cfg.Site.Name) == "" {
		return "Blog"
	}
	return strings.TrimSpace(s.cfg.Site.Name)
}

// EncodeUserID 将用户 ID 编码为链接中的 uid（base64url，无填充）
func EncodeUserID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUserID 解析链接中的 uid
func DecodeUserID(encoded string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(encoded), "="))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("zero user id")
	}
	return uint(id), nil
}

func buildVerificationBody(username, link, siteName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", username)
	b.WriteString("Please click the link below to verify your email address:\n")
	b.WriteString(link)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "This link will expire in %d hours.\n\n", constants.VerificationLinkTTLHours)
	b.WriteString("If you didn't create an account, please ignore this email.\n\n")
	fmt.Fprintf(&b, "Thanks,\nThe %s Team\n", siteName)
	return b.String()
}

func resolveResendIntervalSeconds(cfg config.VerificationConfig) int {
	if cfg.ResendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.ResendIntervalSeconds
}
