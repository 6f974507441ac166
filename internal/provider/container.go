package provider

import (
	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	PostRepo          repository.PostRepository
	CategoryRepo      repository.CategoryRepository
	TagRepo           repository.TagRepository
	CommentRepo       repository.CommentRepository
	ModerationLogRepo repository.ModerationLogRepository

	// Services
	AuthzService         *authz.Service
	EmailService         *service.EmailService
	CaptchaService       *service.CaptchaService
	VerificationService  *service.VerificationService
	AccountService       *service.AccountService
	PostService          *service.PostService
	CategoryService      *service.CategoryService
	TagService           *service.TagService
	CommentService       *service.CommentService
	ModerationLogService *service.ModerationLogService
	UserAdminService     *service.UserAdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c, err := NewContainerWithDB(cfg, models.DB, queueClient)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	return c
}

// NewContainerWithDB 使用指定数据库构建容器，不触碰 Redis 与队列连接
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) (*Container, error) {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.TagRepo = repository.NewTagRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.ModerationLogRepo = repository.NewModerationLogRepository(db)
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapRegistryPolicies(); err != nil {
		logger.Errorw("provider_bootstrap_registry_policies_failed", "error", err)
		return err
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.VerificationService = service.NewVerificationService(c.Config, c.UserRepo, c.EmailService)
	c.AccountService = service.NewAccountService(c.Config, c.UserRepo, c.VerificationService, c.CaptchaService)
	c.PostService = service.NewPostService(c.PostRepo, c.CategoryRepo, c.TagRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.TagService = service.NewTagService(c.TagRepo)
	c.ModerationLogService = service.NewModerationLogService(c.ModerationLogRepo)
	c.CommentService = service.NewCommentService(c.CommentRepo, c.PostRepo, c.ModerationLogService, c.QueueClient)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo)
	return nil
}
