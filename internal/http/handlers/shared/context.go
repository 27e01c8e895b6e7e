package shared

import (
	"github.com/polaroid-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入的上下文键
const (
	ContextUserIDKey    = "user_id"
	ContextUserEmailKey = "user_email"
	ContextUserRoleKey  = "user_role"
)

// GetUserID 读取当前登录用户 ID，未登录时直接写入 401 响应
func GetUserID(c *gin.Context) (uint, bool) {
	id := OptionalUserID(c)
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return id, true
}

// OptionalUserID 游客返回 0
func OptionalUserID(c *gin.Context) uint {
	value, _ := c.Get(ContextUserIDKey)
	id, _ := value.(uint)
	return id
}

func GetContextString(c *gin.Context, key string) string {
	return c.GetString(key)
}
