package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type sentMail struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// stubMailer 记录发送内容，err 非空时模拟投递失败
type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(subject, body, from string, to []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Subject: subject, Body: body, From: from, To: append([]string(nil), to...)})
	return nil
}

func (m *stubMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatalf("no mail sent")
	}
	return m.sent[len(m.sent)-1]
}

var errSMTPDown = errors.New("dial tcp: connection refused")

type serviceTestEnv struct {
	db           *gorm.DB
	cfg          *config.Config
	mailer       *stubMailer
	userRepo     *repository.GormUserRepository
	postRepo     *repository.GormPostRepository
	commentRepo  *repository.GormCommentRepository
	verification *VerificationService
	accounts     *AccountService
	posts        *PostService
	comments     *CommentService
	categories   *CategoryService
	tags         *TagService
	logs         *ModerationLogService
	users        *UserAdminService
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:service_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Tag{}, &models.Post{}, &models.Comment{}, &models.ModerationLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{}
	cfg.Site.Name = "Inkpost"
	cfg.Site.BaseURL = "http://blog.test/"
	cfg.UserJWT.SecretKey = "test-secret"
	cfg.Security.PasswordPolicy.MinLength = 8

	mailer := &stubMailer{}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	logs := NewModerationLogService(repository.NewModerationLogRepository(db))
	queueClient, _ := queue.NewClient(&cfg.Queue)

	verification := NewVerificationService(cfg, userRepo, mailer)
	return &serviceTestEnv{
		db:           db,
		cfg:          cfg,
		mailer:       mailer,
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		verification: verification,
		accounts:     NewAccountService(cfg, userRepo, verification, NewCaptchaService(cfg.Captcha)),
		posts:        NewPostService(postRepo, categoryRepo, tagRepo),
		comments:     NewCommentService(commentRepo, postRepo, logs, queueClient),
		categories:   NewCategoryService(categoryRepo),
		tags:         NewTagService(tagRepo),
		logs:         logs,
		users:        NewUserAdminService(userRepo),
	}
}

func (e *serviceTestEnv) createUser(t *testing.T, username string, role constants.Role, staff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  "x",
		Role:          role,
		IsStaff:       staff,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *serviceTestEnv) createPost(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	post, err := e.posts.Create(author, PostInput{
		Title:   title,
		Content: "body of " + title,
		Status:  constants.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

func (e *serviceTestEnv) reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	user, err := e.userRepo.GetByID(id)
	if err != nil || user == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	return user
}

// fixedClock 可手动推进的时钟
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
