package shared

import (
	"strconv"
	"strings"

	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入的上下文键
const (
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// OptionalUser 读取当前登录用户，游客返回 nil。
func OptionalUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextKeyCurrentUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok || user == nil || user.ID == 0 {
		return nil
	}
	return user
}

// CurrentUser 读取当前登录用户，未登录时直接写入 401 响应。
func CurrentUser(c *gin.Context) (*models.User, bool) {
	user := OptionalUser(c)
	if user == nil {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return user, true
}

// ParseIDParam 解析路径中的正整数 ID，非法时写入 400 响应。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}

// RequestID 读取请求 ID
func RequestID(c *gin.Context) string {
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
