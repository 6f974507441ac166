package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

const birthDateLayout = "2006-01-02"

// AccountService 账号注册、登录与资料维护
type AccountService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	verification *VerificationService
	captcha      *CaptchaService
	now          func() time.Time
}

// NewAccountService 创建账号服务
func NewAccountService(cfg *config.Config, userRepo repository.UserRepository, verification *VerificationService, captcha *CaptchaService) *AccountService {
	return &AccountService{
		cfg:          cfg,
		userRepo:     userRepo,
		verification: verification,
		captcha:      captcha,
		now:          time.Now,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Captcha         CaptchaVerifyPayload
}

// LoginInput 登录参数，Identifier 可以是用户名或邮箱
type LoginInput struct {
	Identifier string
	Password   string
	RememberMe bool
	Captcha    CaptchaVerifyPayload
}

// ProfileInput 资料更新参数，nil 表示不修改
type ProfileInput struct {
	Username     *string
	Email        *string
	Bio          *string
	Location     *string
	BirthDate    *string
	ProfileImage *string
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// Register 注册新账号
// 账号以 reader 角色创建且保持未激活；验证邮件投递失败时账号保留，错误向上返回以便重新申请。
func (s *AccountService) Register(input RegisterInput) (*models.User, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(constants.CaptchaSceneRegister, input.Captcha); err != nil {
			return nil, err
		}
	}
	username := strings.TrimSpace(input.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(username, email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         constants.RoleReader,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, translateUserWriteError(err)
	}
	logger.Infow("user_registered", "user_id", user.ID, "username", user.Username)

	if s.verification == nil {
		return user, ErrEmailServiceNotConfigured
	}
	if err := s.verification.IssueAndSend(user); err != nil {
		return user, err
	}
	return user, nil
}

// Login 用户登录，返回 JWT
func (s *AccountService) Login(input LoginInput) (*models.User, string, time.Time, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(constants.CaptchaSceneLogin, input.Captcha); err != nil {
			return nil, "", time.Time{}, err
		}
	}
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(identifier)
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		logger.Warnw("user_login_failed", "user_id", user.ID, "reason", "password_mismatch")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Warnw("user_login_failed", "user_id", user.ID, "reason", "inactive")
		return nil, "", time.Time{}, ErrAccountInactive
	}

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if input.RememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// Logout 作废当前用户已签发的全部 token
func (s *AccountService) Logout(userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	now := s.now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// GenerateUserJWT 生成用户 JWT Token
func (s *AccountService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	if expireHours <= 0 {
		expireHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *AccountService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUserByID 获取用户
func (s *AccountService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新个人资料
func (s *AccountService) UpdateProfile(userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	username := user.Username
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if !usernamePattern.MatchString(username) {
			return nil, ErrInvalidUsername
		}
	}
	email := user.Email
	if input.Email != nil {
		email, err = normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
	}
	if err := s.ensureUnique(username, email, user.ID); err != nil {
		return nil, err
	}

	if input.BirthDate != nil {
		raw := strings.TrimSpace(*input.BirthDate)
		if raw == "" {
			user.BirthDate = nil
		} else {
			parsed, err := time.Parse(birthDateLayout, raw)
			if err != nil {
				return nil, ErrInvalidInput
			}
			user.BirthDate = &parsed
		}
	}
	user.Username = username
	user.Email = email
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Location != nil {
		user.Location = strings.TrimSpace(*input.Location)
	}
	if input.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*input.ProfileImage)
	}
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, translateUserWriteError(err)
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// translateUserWriteError 并发写入撞上唯一约束时返回与预检查一致的校验错误
func translateUserWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return ErrUsernameExists
	case errors.Is(err, repository.ErrEmailTaken):
		return ErrEmailExists
	}
	return err
}

func (s *AccountService) ensureUnique(username, email string, excludeID uint) error {
	count, err := s.userRepo.CountByUsername(username, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameExists
	}
	count, err = s.userRepo.CountByEmail(email, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}
