package public

import (
	"errors"
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/i18n"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	AffiliateCode string `json:"affiliate_code"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                       `json:"email" binding:"required"`
	Password       string                       `json:"password" binding:"required"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(service.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		Phone:         req.Phone,
		AffiliateCode: req.AffiliateCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			respondPasswordPolicyError(c, err)
			return
		}
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "error.user_create_failed")
		return
	}

	requestLog(c).Infow("user_registered", "user_id", user.ID)
	response.Success(c, authPayload(user, token, expiresAt))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.internal")
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			requestLog(c).Warnw("user_login_failed", "client_ip", c.ClientIP())
		}
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.internal")
		return
	}

	requestLog(c).Infow("user_logged_in", "user_id", user.ID, "role", user.Role)
	response.Success(c, authPayload(user, token, expiresAt))
}

// GetCurrentUser 当前登录用户资料
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, user)
}

func respondPasswordPolicyError(c *gin.Context, err error) {
	var perr *service.PasswordPolicyError
	if errors.As(err, &perr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}

func authPayload(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}
