package admin

import (
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, overrides ...handlershared.ErrorRule) {
	handlershared.RespondServiceError(c, err, overrides...)
}

func currentOperator(c *gin.Context) (*models.User, bool) {
	return handlershared.CurrentUser(c)
}

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id")
}

func moderationMeta(c *gin.Context) service.ModerationMeta {
	return service.ModerationMeta{RequestID: handlershared.RequestID(c)}
}
