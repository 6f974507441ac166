package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/inkpost/internal/constants"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// TagRequest 标签请求
type TagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// AdminPostRequest 后台文章请求
type AdminPostRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
	Status     string `json:"status"`
	CoverImage string `json:"cover_image"`
}

func (r AdminPostRequest) toServiceInput() service.PostInput {
	return service.PostInput{
		Title:      r.Title,
		Slug:       r.Slug,
		Content:    r.Content,
		CategoryID: r.CategoryID,
		TagIDs:     r.TagIDs,
		Status:     r.Status,
		CoverImage: r.CoverImage,
	}
}

// AdminPostItem 后台文章列表项
type AdminPostItem struct {
	models.Post
	WasPublishedRecently bool `json:"was_published_recently"`
}

func saved(c *gin.Context, data interface{}) {
	response.SuccessWithMessages(c, data, []response.Message{
		handlershared.Notice(c, constants.MessageLevelSuccess, "message.saved"),
	})
}

func deleted(c *gin.Context, id uint) {
	response.SuccessWithMessages(c, gin.H{"id": id}, []response.Message{
		handlershared.Notice(c, constants.MessageLevelSuccess, "message.deleted"),
	})
}

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(service.CategoryInput{Name: req.Name, Slug: req.Slug, Description: req.Description})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(id, service.CategoryInput{Name: req.Name, Slug: req.Slug, Description: req.Description})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, category)
}

// DeleteCategory 删除分类，关联文章的分类置空
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	deleted(c, id)
}

// GetAdminTags 获取标签列表 (Admin)
func (h *Handler) GetAdminTags(c *gin.Context) {
	tags, err := h.TagService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, tags)
}

// CreateTag 创建标签
func (h *Handler) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	tag, err := h.TagService.Create(service.TagInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, tag)
}

// UpdateTag 更新标签
func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	tag, err := h.TagService.Update(id, service.TagInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, tag)
}

// DeleteTag 删除标签
func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.TagService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	deleted(c, id)
}

// GetAdminPosts 获取文章列表 (Admin)
func (h *Handler) GetAdminPosts(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	authorID, _ := strconv.ParseUint(c.Query("author_id"), 10, 64)

	posts, total, err := h.PostService.ListAdmin(repository.PostListFilter{
		Page:       page,
		PageSize:   pageSize,
		AuthorID:   uint(authorID),
		CategoryID: uint(categoryID),
		Status:     strings.TrimSpace(c.Query("status")),
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	now := time.Now()
	items := make([]AdminPostItem, 0, len(posts))
	for i := range posts {
		items = append(items, AdminPostItem{Post: posts[i], WasPublishedRecently: posts[i].PublishedRecently(now)})
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// CreatePost 创建文章，作者为当前管理员
func (h *Handler) CreatePost(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	var req AdminPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.Create(operator, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, post)
}

// UpdatePost 更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AdminPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.PostService.Update(operator, id, req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, post)
}

// DeletePost 删除文章，评论一并删除
func (h *Handler) DeletePost(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PostService.Delete(operator, id); err != nil {
		respondServiceError(c, err)
		return
	}
	deleted(c, id)
}
