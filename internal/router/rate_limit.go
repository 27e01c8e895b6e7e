package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/i18n"
	"github.com/polaroid-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则：WindowSeconds 内最多 MaxRequests 次
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int // 超限后封禁时长，0 表示等待窗口过期
	MessageKey    string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(subject string) string {
	if r.Prefix == "" {
		return subject
	}
	return r.Prefix + ":" + subject
}

func (r RateLimitRule) messageKey() string {
	if key := strings.TrimSpace(r.MessageKey); key != "" {
		return key
	}
	return "error.rate_limited"
}

// rateLimitDecision 单次请求的限流结果
type rateLimitDecision struct {
	Allowed    bool
	RetryAfter int
}

var errRateLimitReply = errors.New("unexpected rate limit script reply")

// KEYS[1] 计数 key，KEYS[2] 封禁 key；封禁中返回 {-1, 剩余秒数}
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
local block = tonumber(ARGV[3])
if current > tonumber(ARGV[2]) and block > 0 then
	redis.call("SET", KEYS[2], "1", "EX", block)
	return {current, block}
end
return {current, ttl}
`)

// evalRateLimit 原子计数并判断是否超限
func evalRateLimit(ctx context.Context, client redis.Scripter, rule RateLimitRule, key string) (rateLimitDecision, error) {
	block := rule.BlockSeconds
	if block < 0 {
		block = 0
	}
	reply, err := rateLimitScript.Run(ctx, client, []string{key, key + ":block"}, rule.WindowSeconds, rule.MaxRequests, block).Int64Slice()
	if err != nil {
		return rateLimitDecision{}, err
	}
	if len(reply) < 2 {
		return rateLimitDecision{}, errRateLimitReply
	}
	return decideRateLimit(rule, reply[0], reply[1]), nil
}

// decideRateLimit count<0 表示处于封禁期
func decideRateLimit(rule RateLimitRule, count, ttl int64) rateLimitDecision {
	if count >= 0 && count <= int64(rule.MaxRequests) {
		return rateLimitDecision{Allowed: true}
	}
	wait := int(ttl)
	if wait < 1 {
		wait = rule.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return rateLimitDecision{RetryAfter: wait}
}

// RateLimitMiddleware Redis 频率限制中间件（未配置 Redis 或规则时放行）
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		subject := ""
		if keyFunc != nil {
			subject = strings.TrimSpace(keyFunc(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}

		locale := i18n.ResolveLocale(c)
		decision, err := evalRateLimit(c.Request.Context(), client, rule, rule.key(subject))
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "prefix", rule.Prefix, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(locale, "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if !decision.Allowed {
			logger.Warnw("rate_limit_exceeded", "prefix", rule.Prefix, "client_ip", c.ClientIP(), "retry_after", decision.RetryAfter)
			c.Header("Retry-After", strconv.Itoa(decision.RetryAfter))
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(locale, rule.messageKey(), decision.RetryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 JSON 字段（小写）+ IP 作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(readJSONField(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// readJSONField 读取请求体中的字符串字段，读取后恢复请求体
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload[field], &text); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
