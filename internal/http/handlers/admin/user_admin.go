package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateUserRoleRequest 修改用户角色请求
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AdminListUsers 用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePageQuery(c)
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.ToUpper(strings.TrimSpace(c.Query("role"))),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.IsActive = &active
	}

	users, total, err := h.UserService.ListUsers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// AdminGetUser 用户详情
func (h *Handler) AdminGetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserService.GetUser(userID)
	if err != nil {
		respondWithMappedError(c, err, userUpdateErrorRules, response.CodeInternal, "error.user_fetch_failed")
		return
	}
	response.Success(c, user)
}

// AdminUpdateUserRole 修改用户角色
func (h *Handler) AdminUpdateUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "error.user_not_found")
	if !ok {
		return
	}
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		return
	}
	user, err := h.UserService.UpdateRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		respondWithMappedError(c, err, userUpdateErrorRules, response.CodeInternal, "error.user_update_failed")
		return
	}
	requestLog(c).Infow("admin_user_role_updated", "user_id", user.ID, "role", user.Role, "operator", currentCaller(c))
	response.Success(c, user)
}

// AdminToggleUserActive 启用/停用用户
func (h *Handler) AdminToggleUserActive(c *gin.Context) {
	userID, ok := parseIDParam(c, "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserService.ToggleActive(c.Request.Context(), userID)
	if err != nil {
		respondWithMappedError(c, err, userUpdateErrorRules, response.CodeInternal, "error.user_update_failed")
		return
	}
	requestLog(c).Infow("admin_user_active_toggled", "user_id", user.ID, "is_active", user.IsActive, "operator", currentCaller(c))
	response.Success(c, user)
}

// AdminGenerateAffiliateCode 为用户生成推广码
func (h *Handler) AdminGenerateAffiliateCode(c *gin.Context) {
	userID, ok := parseIDParam(c, "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserService.GenerateAffiliateCode(userID)
	if err != nil {
		respondWithMappedError(c, err, userUpdateErrorRules, response.CodeInternal, "error.user_update_failed")
		return
	}
	response.Success(c, user)
}

// AdminCountUsersByRole 按角色统计用户数
func (h *Handler) AdminCountUsersByRole(c *gin.Context) {
	counts, err := h.UserService.CountByRole()
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, counts)
}
