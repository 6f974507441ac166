package main

import (
	"fmt"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var authorName string
	var postCount int
	pflag.StringVar(&authorName, "author", "demo-author", "示例文章作者用户名")
	pflag.IntVar(&postCount, "posts", 6, "生成的示例文章数量")
	pflag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		Verbose:                cfg.Database.Verbose,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(models.DB)
	categoryService := service.NewCategoryService(repository.NewCategoryRepository(models.DB))
	tagService := service.NewTagService(repository.NewTagRepository(models.DB))
	postService := service.NewPostService(
		repository.NewPostRepository(models.DB),
		repository.NewCategoryRepository(models.DB),
		repository.NewTagRepository(models.DB),
	)

	author, err := ensureAuthor(userRepo, authorName)
	if err != nil {
		stdLog.Fatalf("Failed to create author: %v", err)
	}

	// 添加分类
	categoryIDs := make([]uint, 0, 3)
	for _, input := range []service.CategoryInput{
		{Name: "Engineering", Description: "Notes from building software."},
		{Name: "Travel", Description: "Places worth the trip."},
		{Name: "Café Culture", Description: "Coffee, tea and long conversations."},
	} {
		category, err := categoryService.Create(input)
		if err != nil {
			stdLog.Printf("skip category %q: %v", input.Name, err)
			continue
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	// 添加标签
	tagIDs := make([]uint, 0, 4)
	for _, name := range []string{"Go", "Databases", "Weekend", "Résumé Tips"} {
		tag, err := tagService.Create(service.TagInput{Name: name})
		if err != nil {
			stdLog.Printf("skip tag %q: %v", name, err)
			continue
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	// 添加文章，奇数篇保存为草稿
	created := 0
	for i := 1; i <= postCount; i++ {
		input := service.PostInput{
			Title:   fmt.Sprintf("Demo post #%d (%s)", i, time.Now().Format("2006-01-02")),
			Content: fmt.Sprintf("This is demo post number %d.", i),
			Status:  constants.PostStatusPublished,
		}
		if i%2 == 1 {
			input.Status = constants.PostStatusDraft
		}
		if len(categoryIDs) > 0 {
			categoryID := categoryIDs[i%len(categoryIDs)]
			input.CategoryID = &categoryID
		}
		if len(tagIDs) > 0 {
			input.TagIDs = []uint{tagIDs[i%len(tagIDs)]}
		}
		if _, err := postService.Create(author, input); err != nil {
			stdLog.Printf("skip post %d: %v", i, err)
			continue
		}
		created++
	}

	fmt.Printf("Seed completed: %d categories, %d tags, %d posts by %s\n", len(categoryIDs), len(tagIDs), created, author.Username)
}

func ensureAuthor(repo repository.UserRepository, username string) (*models.User, error) {
	existing, err := repo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  string(hash),
		Role:          constants.RoleAuthor,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
