package public

import (
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeBadRequest, "error.captcha_unavailable", nil)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
