package public

import (
	"errors"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		if errors.Is(err, service.ErrCaptchaDisabled) {
			respondError(c, response.CodeBadRequest, "error.captcha_disabled", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// GetCaptchaConfig 前端据此决定是否展示验证码
func (h *Handler) GetCaptchaConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"login": h.CaptchaService.IsSceneEnabled(constants.CaptchaSceneLogin),
	})
}
