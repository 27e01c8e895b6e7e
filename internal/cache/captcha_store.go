package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/polaroid-next/internal/logger"

	"github.com/redis/go-redis/v9"
)

const captchaOpTimeout = 2 * time.Second

// CaptchaStore 在 Redis 中保存验证码答案，多实例部署时共享挑战
type CaptchaStore struct {
	ttl time.Duration
}

// NewCaptchaStore Redis 未启用时返回 nil，调用方应回退到内存存储
func NewCaptchaStore(ttl time.Duration) *CaptchaStore {
	if !Enabled() {
		return nil
	}
	return &CaptchaStore{ttl: ttl}
}

func captchaKey(id string) string {
	return active.key("captcha:" + strings.TrimSpace(id))
}

func (s *CaptchaStore) Set(id string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), captchaOpTimeout)
	defer cancel()
	return active.client.Set(ctx, captchaKey(id), value, s.ttl).Err()
}

// Get clear 为 true 时读取后立即删除
func (s *CaptchaStore) Get(id string, clear bool) string {
	ctx, cancel := context.WithTimeout(context.Background(), captchaOpTimeout)
	defer cancel()
	var cmd *redis.StringCmd
	if clear {
		cmd = active.client.GetDel(ctx, captchaKey(id))
	} else {
		cmd = active.client.Get(ctx, captchaKey(id))
	}
	value, err := cmd.Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warnw("captcha_store_get_failed", "captcha_id", id, "error", err)
	}
	return value
}

// Verify 答案不区分大小写
func (s *CaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	return stored != "" && strings.EqualFold(stored, strings.TrimSpace(answer))
}
