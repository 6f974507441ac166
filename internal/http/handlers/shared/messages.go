package shared

import (
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/i18n"

	"github.com/gin-gonic/gin"
)

// Notice 按请求语言构建一条提示
func Notice(c *gin.Context, level, key string, args ...interface{}) response.Message {
	locale := i18n.ResolveLocale(c)
	return response.Message{Level: level, Text: i18n.Sprintf(locale, key, args...)}
}
