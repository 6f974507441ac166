package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var catalogs = map[string]map[string]string{
	LocaleEN: messagesEN,
	LocaleZH: messagesZH,
}

// ResolveLocale 解析请求语言，优先级：lang 参数 > X-Locale 头 > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query("lang"),
		c.GetHeader("X-Locale"),
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		if tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0]); tag != "" {
			candidates = append(candidates, tag)
		}
	}
	for _, candidate := range candidates {
		if locale, ok := NormalizeLocale(candidate); ok {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 将语言标签映射到支持的语言
func NormalizeLocale(raw string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case tag == "":
		return "", false
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH, true
	case strings.HasPrefix(tag, "en"):
		return LocaleEN, true
	default:
		return "", false
	}
}

// T 翻译消息键，缺失时回退到英文，再回退到键本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messagesEN[key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译后按参数格式化
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
