package service

import (
	"strings"
	"sync"
	"time"

	"github.com/agromate/agromate-api/internal/config"

	"github.com/mojocn/base64Captcha"
)

const (
	captchaProviderNone  = "none"
	captchaProviderImage = "image"
)

// CaptchaVerifyPayload is the captcha part of a login or signup request.
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge is a generated image captcha.
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService issues and verifies image captchas for the auth endpoints.
// With provider "none" verification is a pass-through.
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService creates the captcha service.
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled reports whether a captcha is required on auth endpoints.
func (s *CaptchaService) Enabled() bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.cfg.Provider), captchaProviderImage)
}

// GenerateImageChallenge creates a new image captcha.
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaConfigInvalid
	}

	image := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		positiveOr(image.Height, 60),
		positiveOr(image.Width, 200),
		positiveOr(image.NoiseCount, 0),
		base64Captcha.OptionShowHollowLine,
		positiveOr(image.Length, 5),
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureImageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}

	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify checks a captcha answer. A disabled provider accepts everything.
func (s *CaptchaService) Verify(payload CaptchaVerifyPayload) error {
	if !s.Enabled() {
		return nil
	}

	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureImageStore().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		s.imageStore = base64Captcha.NewMemoryStore(
			positiveOr(s.cfg.Image.MaxStore, base64Captcha.GCLimitNumber),
			time.Duration(positiveOr(s.cfg.Image.ExpireSeconds, 300))*time.Second,
		)
	}
	return s.imageStore
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
