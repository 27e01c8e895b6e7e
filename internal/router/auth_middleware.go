package router

import (
	"context"
	"errors"
	"strings"

	"github.com/polaroid-next/internal/authz"
	"github.com/polaroid-next/internal/cache"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/i18n"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenAuthenticator 解析令牌并回源用户当前状态
type TokenAuthenticator interface {
	ParseJWT(token string) (*service.JWTClaims, error)
	ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error)
}

// RoleEnforcer 后台路由的角色授权判定
type RoleEnforcer interface {
	EnforceRole(role, obj, act string) (bool, error)
}

// authFailure 鉴权失败对应的 i18n key
type authFailure string

func (f authFailure) Error() string { return string(f) }

const (
	failHeaderMissing authFailure = "error.auth_header_missing"
	failHeaderInvalid authFailure = "error.auth_header_invalid"
	failTokenInvalid  authFailure = "error.token_invalid"
	failSecretMissing authFailure = "error.jwt_secret_missing"
	failUserDisabled  authFailure = "error.user_disabled"
	failTokenRevoked  authFailure = "error.token_revoked"
)

// JWTAuthMiddleware 必须登录；角色与启用状态以服务端快照为准
func JWTAuthMiddleware(authenticator TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !applyAuth(c, authenticator) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuthMiddleware 无 Authorization 头时按游客放行，带头但无效时仍拒绝
func OptionalJWTAuthMiddleware(authenticator TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) != "" && !applyAuth(c, authenticator) {
			return
		}
		c.Next()
	}
}

func applyAuth(c *gin.Context, authenticator TokenAuthenticator) bool {
	claims, state, err := authenticate(c, authenticator)
	if err != nil {
		var failure authFailure
		if !errors.As(err, &failure) {
			failure = failTokenInvalid
		}
		response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), string(failure)))
		c.Abort()
		return false
	}
	c.Set(shared.ContextUserIDKey, claims.UserID)
	c.Set(shared.ContextUserEmailKey, claims.Email)
	c.Set(shared.ContextUserRoleKey, state.Role)
	return true
}

func authenticate(c *gin.Context, authenticator TokenAuthenticator) (*service.JWTClaims, *cache.UserAuthState, error) {
	if authenticator == nil {
		return nil, nil, failTokenInvalid
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return nil, nil, failHeaderMissing
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, nil, failHeaderInvalid
	}

	claims, err := authenticator.ParseJWT(strings.TrimSpace(token))
	if errors.Is(err, service.ErrTokenSecretMissing) {
		logger.Errorw("jwt_secret_missing")
		return nil, nil, failSecretMissing
	}
	if err != nil {
		return nil, nil, failTokenInvalid
	}

	state, err := authenticator.ResolveAuthState(c.Request.Context(), claims.UserID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		// 签发后账号已被删除
		return nil, nil, failTokenRevoked
	case err != nil:
		logger.Warnw("jwt_auth_state_resolve_failed", "user_id", claims.UserID, "error", err)
		return nil, nil, failTokenInvalid
	case state == nil:
		return nil, nil, failTokenInvalid
	}
	if !state.IsActive {
		return nil, nil, failUserDisabled
	}
	return claims, state, nil
}

// AdminRBACMiddleware 以路由模板（c.FullPath）和方法做 Casbin 判定
// CUSTOMER 直接拒绝，判定出错时按未授权处理
func AdminRBACMiddleware(enforcer RoleEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ResolveLocale(c)
		role := strings.TrimSpace(shared.GetContextString(c, shared.ContextUserRoleKey))
		if enforcer == nil || role == "" {
			if enforcer == nil {
				logger.Errorw("admin_rbac_service_unavailable")
			}
			response.Unauthorized(c, i18n.T(locale, "error.unauthorized"))
			c.Abort()
			return
		}
		if role == constants.RoleCustomer {
			response.Forbidden(c, i18n.T(locale, "error.forbidden"))
			c.Abort()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		allowed, err := enforcer.EnforceRole(role, route, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed", "role", role, "method", c.Request.Method, "route", route, "error", err)
			response.Unauthorized(c, i18n.T(locale, "error.unauthorized"))
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"role", role,
				"user_id", shared.OptionalUserID(c),
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(route),
			)
			response.Forbidden(c, i18n.T(locale, "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}
