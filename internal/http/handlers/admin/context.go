package admin

import (
	"fmt"
	"strings"

	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) uint {
	return handlershared.OptionalUserID(c)
}

func currentRole(c *gin.Context) string {
	return handlershared.GetContextString(c, handlershared.ContextUserRoleKey)
}

// currentCaller 状态历史中的操作人标识（优先邮箱）
func currentCaller(c *gin.Context) string {
	if email := strings.TrimSpace(handlershared.GetContextString(c, handlershared.ContextUserEmailKey)); email != "" {
		return email
	}
	if id := currentUserID(c); id > 0 {
		return fmt.Sprintf("user:%d", id)
	}
	return ""
}

func parseIDParam(c *gin.Context, invalidKey string) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return id, true
}
