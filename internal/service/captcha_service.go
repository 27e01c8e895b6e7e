package service

import (
	"strings"
	"time"

	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// 去掉 0/O、1/l/I 等易混字符
const captchaCharset = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

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

// CaptchaService 图片验证码，目前只有登录场景
type CaptchaService struct {
	cfg    config.CaptchaConfig
	store  base64Captcha.Store
	driver base64Captcha.Driver
}

// NewCaptchaService Redis 可用时答案存 Redis，否则存进程内存
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	cfg = normalizeCaptchaConfig(cfg)
	ttl := time.Duration(cfg.ExpireSeconds) * time.Second

	var store base64Captcha.Store
	if redisStore := cache.NewCaptchaStore(ttl); redisStore != nil {
		store = redisStore
	} else {
		store = base64Captcha.NewMemoryStore(cfg.MaxStore, ttl)
	}
	driver := base64Captcha.NewDriverString(
		cfg.Height, cfg.Width, cfg.NoiseCount, cfg.ShowLine, cfg.Length,
		captchaCharset, nil, base64Captcha.DefaultEmbeddedFonts, nil,
	)
	return &CaptchaService{cfg: cfg, store: store, driver: driver}
}

// IsSceneEnabled 场景是否启用验证码
func (s *CaptchaService) IsSceneEnabled(scene string) bool {
	if s == nil {
		return false
	}
	return strings.TrimSpace(scene) == constants.CaptchaSceneLogin && s.cfg.LoginEnabled
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.IsSceneEnabled(constants.CaptchaSceneLogin) {
		return nil, ErrCaptchaDisabled
	}
	id, b64s, _, err := base64Captcha.NewCaptcha(s.driver, s.store).Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{CaptchaID: id, ImageBase64: b64s}, nil
}

// Verify 按场景校验，无论成败验证码都立即失效
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.IsSceneEnabled(scene) {
		return nil
	}
	id := strings.TrimSpace(payload.CaptchaID)
	code := strings.TrimSpace(payload.CaptchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

type intBound struct {
	value              *int
	min, max, fallback int
}

func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	bounds := []intBound{
		{&cfg.Length, 4, 8, 5},
		{&cfg.Width, 80, 400, 160},
		{&cfg.Height, 30, 160, 60},
		{&cfg.NoiseCount, 0, 10, 2},
		{&cfg.ShowLine, 0, 8, 2},
		{&cfg.ExpireSeconds, 30, 1800, 300},
		{&cfg.MaxStore, 100, 100000, 10240},
	}
	for _, b := range bounds {
		if *b.value < b.min || *b.value > b.max {
			*b.value = b.fallback
		}
	}
	return cfg
}
