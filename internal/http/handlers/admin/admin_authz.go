package admin

import (
	"net/url"
	"strings"

	"github.com/polaroid-next/internal/authz"
	"github.com/polaroid-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzRoleView struct {
	Role    string `json:"role"`
	Builtin bool   `json:"builtin"`
}

var authzErrorRules = []mappedHandlerError{
	{Target: authz.ErrRoleRequired, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: authz.ErrRoleReserved, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: authz.ErrRoleBuiltin, Code: response.CodeBadRequest, Key: "error.role_builtin"},
	{Target: authz.ErrActionRequired, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// GetAuthzMe 当前登录角色及其后台策略
func (h *Handler) GetAuthzMe(c *gin.Context) {
	role := currentRole(c)
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondWithMappedError(c, err, authzErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"user_id":  currentUserID(c),
		"role":     role,
		"builtin":  authz.IsBuiltinRole(role),
		"policies": policies,
	})
}

func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	views := make([]authzRoleView, len(roles))
	for i, role := range roles {
		views[i] = authzRoleView{Role: role, Builtin: authz.IsBuiltinRole(role)}
	}
	response.Success(c, views)
}

func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondWithMappedError(c, err, authzErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_authz_role_created", "operator", currentCaller(c), "role", role)
	response.Success(c, authzRoleView{Role: role, Builtin: authz.IsBuiltinRole(role)})
}

// DeleteAuthzRole 删除自定义角色，内置角色返回 role_builtin
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondWithMappedError(c, err, authzErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_authz_role_deleted", "operator", currentCaller(c), "role", role)
	response.Success(c, nil)
}

func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondWithMappedError(c, err, authzErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予策略（角色不存在时自动创建）
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	h.changeAuthzPolicy(c, "admin_authz_policy_granted", h.AuthzService.GrantRolePolicy)
}

// RevokeAuthzPolicy 撤销策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	h.changeAuthzPolicy(c, "admin_authz_policy_revoked", h.AuthzService.RevokeRolePolicy)
}

func (h *Handler) changeAuthzPolicy(c *gin.Context, event string, apply func(role, object, action string) error) {
	var req authzPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := apply(req.Role, req.Object, req.Action); err != nil {
		respondWithMappedError(c, err, authzErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow(event,
		"operator", currentCaller(c),
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	response.Success(c, nil)
}

// roleParam 读取路径中的角色名（支持 role%3AADMIN 形式）
func roleParam(c *gin.Context) (string, bool) {
	raw := c.Param("role")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	role := strings.TrimSpace(raw)
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return "", false
	}
	return role, true
}
