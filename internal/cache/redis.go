package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/logger"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "pg"

// store 进程内共享的 Redis 连接；client 为 nil 表示未启用，所有读写降级为空操作
type store struct {
	client *redis.Client
	prefix string
}

var active = store{prefix: defaultKeyPrefix}

// InitRedis 按配置建立 Redis 客户端，并做一次连通性探测
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		active = store{prefix: defaultKeyPrefix}
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	active = store{client: client, prefix: prefix}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis_ping_failed", "addr", client.Options().Addr, "error", err)
	}
	return nil
}

func Enabled() bool {
	return active.client != nil
}

// Client 未启用时返回 nil
func Client() *redis.Client {
	return active.client
}

func (s store) key(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.prefix
	}
	return s.prefix + ":" + name
}

// getJSON 命中时返回 true；未启用视为未命中
func getJSON[T any](ctx context.Context, name string) (T, bool, error) {
	var out T
	if !Enabled() {
		return out, false, nil
	}
	raw, err := active.client.Get(ctx, active.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, err
	}
	return out, true, nil
}

func setJSON(ctx context.Context, name string, value any, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return active.client.Set(ctx, active.key(name), raw, ttl).Err()
}

func del(ctx context.Context, name string) error {
	if !Enabled() {
		return nil
	}
	return active.client.Del(ctx, active.key(name)).Err()
}

// Close 关闭连接并回到未启用状态
func Close() error {
	client := active.client
	active = store{prefix: defaultKeyPrefix}
	if client == nil {
		return nil
	}
	return client.Close()
}
