package service

import (
	"strings"
	"sync"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const captchaImageCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 验证码服务
// 按场景开关决定是否需要验证码，图片验证码存储在进程内存中
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: normalizeCaptchaConfig(cfg)}
}

// Provider 当前验证码提供方
func (s *CaptchaService) Provider() string {
	if s == nil {
		return constants.CaptchaProviderNone
	}
	return s.cfg.Provider
}

// IsSceneEnabled 场景是否需要验证码
func (s *CaptchaService) IsSceneEnabled(scene string) bool {
	if s == nil || s.cfg.Provider == constants.CaptchaProviderNone {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scene)) {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneRegister:
		return s.cfg.Scenes.Register
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if s == nil || s.cfg.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaUnavailable
	}
	img := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		img.Height,
		img.Width,
		img.NoiseCount,
		img.ShowLine,
		img.Length,
		captchaImageCharset,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，场景未开启时直接通过
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.IsSceneEnabled(scene) {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.store().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) store() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		s.imageStore = base64Captcha.NewMemoryStore(
			s.cfg.Image.MaxStore,
			time.Duration(s.cfg.Image.ExpireSeconds)*time.Second,
		)
	}
	return s.imageStore
}

func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider != constants.CaptchaProviderImage {
		provider = constants.CaptchaProviderNone
	}
	cfg.Provider = provider

	img := &cfg.Image
	if img.Length < 4 || img.Length > 8 {
		img.Length = 5
	}
	if img.Width < 80 || img.Width > 480 {
		img.Width = 240
	}
	if img.Height < 32 || img.Height > 160 {
		img.Height = 80
	}
	if img.NoiseCount < 0 || img.NoiseCount > 20 {
		img.NoiseCount = 2
	}
	if img.ShowLine < 0 {
		img.ShowLine = 2
	}
	if img.ExpireSeconds < 30 || img.ExpireSeconds > 3600 {
		img.ExpireSeconds = 300
	}
	if img.MaxStore < 100 {
		img.MaxStore = 10240
	}
	return cfg
}
