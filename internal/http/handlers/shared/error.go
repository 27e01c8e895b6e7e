package shared

import (
	"errors"

	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/i18n"
	"github.com/polaroid-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c != nil {
		if id := c.GetString("request_id"); id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按请求语言翻译 key 后返回错误
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorWithMsg 直接使用已翻译的消息；err 只进日志不进响应
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		appErr := response.WrapError(code, msg, err)
		RequestLog(c).Errorw("handler_error", "code", appErr.Code, "error", appErr)
	}
	response.Error(c, code, msg)
}

// MappedError 业务错误到响应码与文案 key 的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondWithMappedError 命中映射表时按规则返回，否则记录原始错误并使用兜底文案
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if rule, ok := matchError(err, rules); ok {
		RespondError(c, rule.Code, rule.Key, nil)
		return
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

func matchError(err error, rules []MappedError) (MappedError, bool) {
	if err == nil {
		return MappedError{}, false
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			return rule, true
		}
	}
	return MappedError{}, false
}
