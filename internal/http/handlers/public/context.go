package public

import (
	"github.com/inkpost/internal/constants"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, overrides ...handlershared.ErrorRule) {
	handlershared.RespondServiceError(c, err, overrides...)
}

func currentUser(c *gin.Context) (*models.User, bool) {
	return handlershared.CurrentUser(c)
}

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id")
}

func moderationMeta(c *gin.Context) service.ModerationMeta {
	return service.ModerationMeta{RequestID: handlershared.RequestID(c)}
}

func successNotice(c *gin.Context, data interface{}, key string, args ...interface{}) {
	response.SuccessWithMessages(c, data, []response.Message{
		handlershared.Notice(c, constants.MessageLevelSuccess, key, args...),
	})
}

func denied(key string) handlershared.ErrorRule {
	return handlershared.ErrorRule{Target: service.ErrPermissionDenied, Code: response.CodeForbidden, Key: key}
}
