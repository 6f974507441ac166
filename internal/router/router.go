package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	adminhandlers "github.com/inkpost/internal/http/handlers/admin"
	publichandlers "github.com/inkpost/internal/http/handlers/public"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/provider"

	"github.com/gin-gonic/gin"
)

const apiV1Prefix = "/api/v1"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "inkpost"
	}
	redisClient := cache.Client()
	loginRule := RuleFromConfig(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	registerRule := RuleFromConfig(fmt.Sprintf("%s:rate:register", redisPrefix), cfg.Security.RegisterRateLimit)
	commentRule := RuleFromConfig(fmt.Sprintf("%s:rate:comment", redisPrefix), cfg.Security.CommentRateLimit)

	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)
	optionalAuth := OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group(apiV1Prefix)
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/home", publicHandler.GetHome)
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:id", optionalAuth, publicHandler.GetPostDetail)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/tags", publicHandler.GetTags)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
			auth.GET("/verify-email/:uid/:token", publicHandler.VerifyEmail)
			auth.POST("/resend-verification", RateLimitMiddleware(redisClient, registerRule, KeyByIPAndJSONField("email")), publicHandler.ResendVerification)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
			auth.GET("/captcha", publicHandler.GetImageCaptcha)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.POST("/me/logout", publicHandler.Logout)

			user.POST("/posts", publicHandler.CreatePost)
			user.PUT("/posts/:id", publicHandler.UpdatePost)
			user.DELETE("/posts/:id", publicHandler.DeletePost)

			user.POST("/posts/:id/comments", RateLimitMiddleware(redisClient, commentRule, KeyByUser), publicHandler.CreateComment)
			user.PUT("/comments/:id", publicHandler.UpdateComment)
			user.DELETE("/comments/:id", publicHandler.DeleteComment)
			user.POST("/comments/:id/approve", publicHandler.ApproveComment)
			user.GET("/moderation/comments", publicHandler.ListPendingComments)
		}

		// 管理后台接口（注册表 + casbin）
		admin := apiV1.Group("/admin")
		admin.Use(userAuth, AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/registry", adminHandler.GetRegistry)

			// 分类管理
			admin.GET("/categories", adminHandler.GetAdminCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// 标签管理
			admin.GET("/tags", adminHandler.GetAdminTags)
			admin.POST("/tags", adminHandler.CreateTag)
			admin.PUT("/tags/:id", adminHandler.UpdateTag)
			admin.DELETE("/tags/:id", adminHandler.DeleteTag)

			// 文章管理
			admin.GET("/posts", adminHandler.GetAdminPosts)
			admin.POST("/posts", adminHandler.CreatePost)
			admin.PUT("/posts/:id", adminHandler.UpdatePost)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)

			// 用户管理
			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.PUT("/users/:id", adminHandler.UpdateAdminUser)
			admin.DELETE("/users/:id", adminHandler.DeleteAdminUser)

			// 评论审核
			admin.GET("/comments", adminHandler.GetAdminComments)
			admin.POST("/comments/approve", adminHandler.BulkApproveComments)
			admin.POST("/comments/disapprove", adminHandler.BulkDisapproveComments)
			admin.DELETE("/comments/:id", adminHandler.DeleteComment)

			admin.GET("/moderation-logs", adminHandler.GetModerationLogs)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for _, missing := range missingRegistryRoutes(r) {
		logger.Warnw("admin_registry_route_missing", "route", missing)
	}

	return r
}

// missingRegistryRoutes 返回注册表中声明但未挂载到引擎上的后台接口
func missingRegistryRoutes(engine *gin.Engine) []string {
	if engine == nil {
		return nil
	}
	mounted := make(map[string]struct{})
	for _, item := range engine.Routes() {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if !strings.HasPrefix(item.Path, apiV1Prefix+"/admin/") {
			continue
		}
		mounted[method+":"+authz.NormalizeObject(item.Path)] = struct{}{}
	}

	missing := make([]string, 0)
	for _, entity := range authz.AdminRegistry() {
		for _, route := range entity.Operations {
			permission := authz.NormalizeAction(route.Method) + ":" + authz.NormalizeObject(route.Path)
			if _, ok := mounted[permission]; !ok {
				missing = append(missing, permission)
			}
		}
	}
	sort.Strings(missing)
	return missing
}
