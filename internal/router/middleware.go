package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/i18n"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// userAuthResult 解析 Bearer Token 的结果，errKey 非空表示鉴权失败
type userAuthResult struct {
	user   *models.User
	errKey string
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := authenticateUser(c, secretKey, userRepo, true)
		if result.errKey != "" {
			msg := i18n.T(i18n.ResolveLocale(c), result.errKey)
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		setCurrentUser(c, result.user)
		c.Next()
	}
}

// OptionalUserJWTMiddleware 可选鉴权，令牌缺失或无效时按游客继续处理
func OptionalUserJWTMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		result := authenticateUser(c, secretKey, userRepo, false)
		if result.errKey == "" && result.user != nil {
			setCurrentUser(c, result.user)
		}
		c.Next()
	}
}

func setCurrentUser(c *gin.Context, user *models.User) {
	c.Set(handlershared.ContextKeyUserID, user.ID)
	c.Set(handlershared.ContextKeyCurrentUser, user)
}

func authenticateUser(c *gin.Context, secretKey string, userRepo repository.UserRepository, logFailures bool) userAuthResult {
	if secretKey == "" {
		if logFailures {
			logger.Errorw("user_jwt_secret_missing")
		}
		return userAuthResult{errKey: "error.jwt_secret_missing"}
	}
	if userRepo == nil {
		return userAuthResult{errKey: "error.token_invalid"}
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return userAuthResult{errKey: "error.auth_header_missing"}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return userAuthResult{errKey: "error.auth_header_invalid"}
	}

	tokenString := parts[1]
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return userAuthResult{errKey: "error.token_invalid"}
	}

	if cached, hit, cacheErr := cache.GetUserAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && cached != nil {
		if !cached.IsActive {
			return userAuthResult{errKey: "error.user_disabled"}
		}
		if claims.TokenVersion != cached.TokenVersion || !isIssuedAfterInvalidBeforeUnix(claims.IssuedAt, cached.TokenInvalidBefore) {
			return userAuthResult{errKey: "error.token_revoked"}
		}
		return userAuthResult{user: userFromAuthState(cached)}
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return userAuthResult{errKey: "error.token_invalid"}
	}
	if !user.IsActive {
		return userAuthResult{errKey: "error.user_disabled"}
	}
	if claims.TokenVersion != user.TokenVersion || !isIssuedAfterInvalidBefore(claims.IssuedAt, user.TokenInvalidBefore) {
		return userAuthResult{errKey: "error.token_revoked"}
	}
	_ = cache.SetUserAuthState(c.Request.Context(), cache.BuildUserAuthState(user))
	return userAuthResult{user: user}
}

// userFromAuthState 由缓存快照还原鉴权所需的用户字段
func userFromAuthState(state *cache.UserAuthState) *models.User {
	user := &models.User{
		ID:            state.UserID,
		Username:      state.Username,
		Role:          constants.Role(state.Role),
		IsStaff:       state.IsStaff,
		IsActive:      state.IsActive,
		EmailVerified: state.IsActive,
		TokenVersion:  state.TokenVersion,
	}
	if state.TokenInvalidBefore > 0 {
		invalidBefore := time.Unix(state.TokenInvalidBefore, 0)
		user.TokenInvalidBefore = &invalidBefore
	}
	return user
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，需挂在 UserJWTAuthMiddleware 之后
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		user := handlershared.OptionalUser(c)
		if user == nil {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceUser(user, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"user_id", user.ID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"user_id", user.ID,
				"role", user.Role,
				"is_staff", user.IsStaff,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}

func isIssuedAfterInvalidBefore(issuedAt *jwt.NumericDate, invalidBefore *time.Time) bool {
	if invalidBefore == nil {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBefore.Unix()
}

func isIssuedAfterInvalidBeforeUnix(issuedAt *jwt.NumericDate, invalidBeforeUnix int64) bool {
	if invalidBeforeUnix <= 0 {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBeforeUnix
}
