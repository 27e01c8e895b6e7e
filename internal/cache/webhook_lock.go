package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var webhookLockRelease = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// WebhookLock 同一账单号的回调处理锁
type WebhookLock struct {
	key   string
	token string
}

func webhookLockKey(gateway, reference string) string {
	return fmt.Sprintf("webhook:lock:%s:%s", strings.ToLower(strings.TrimSpace(gateway)), strings.TrimSpace(reference))
}

// AcquireWebhookLock 尝试获取回调处理锁
// Redis 未启用时返回 (nil, true, nil)，调用方只依赖数据库条件更新
func AcquireWebhookLock(ctx context.Context, gateway, reference string, ttl time.Duration) (*WebhookLock, bool, error) {
	if !Enabled() {
		return nil, true, nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	lock := &WebhookLock{
		key:   active.key(webhookLockKey(gateway, reference)),
		token: uuid.NewString(),
	}
	ok, err := active.client.SetNX(ctx, lock.key, lock.token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return lock, true, nil
}

// Release 释放锁，只删除自己持有的值
func (l *WebhookLock) Release(ctx context.Context) error {
	if l == nil || !Enabled() {
		return nil
	}
	return webhookLockRelease.Run(ctx, active.client, []string{l.key}, l.token).Err()
}
