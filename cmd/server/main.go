package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/inkpost/internal/app"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	// 解析命令行参数
	var mode string
	var skipSuperuser bool
	pflag.StringVarP(&mode, "mode", "m", app.ModeAll, "启动模式: all (默认), api, worker")
	pflag.BoolVar(&skipSuperuser, "skip-superuser", false, "跳过默认超级用户初始化")
	pflag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.UserJWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.UserJWT.SecretKey) {
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		Verbose:                cfg.Database.Verbose,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化默认超级用户
	if !skipSuperuser {
		username := os.Getenv("INKPOST_SUPERUSER_USERNAME")
		email := os.Getenv("INKPOST_SUPERUSER_EMAIL")
		password := os.Getenv("INKPOST_SUPERUSER_PASSWORD")
		if cfg.Server.Mode == "release" && password == "" {
			stdLog.Printf("警告: 未设置 INKPOST_SUPERUSER_PASSWORD，已跳过默认超级用户初始化")
		} else if err := models.InitDefaultSuperuser(username, email, password); err != nil {
			stdLog.Printf("警告: 初始化默认超级用户失败: %v", err)
		}
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "inkpost" + ansiReset + ansiDim + "  blog api" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
