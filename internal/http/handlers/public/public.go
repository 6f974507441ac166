package public

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// PostView 文章响应结构
type PostView struct {
	models.Post
	WasPublishedRecently bool `json:"was_published_recently"`
}

func newPostViews(posts []models.Post, now time.Time) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, PostView{Post: posts[i], WasPublishedRecently: posts[i].PublishedRecently(now)})
	}
	return views
}

// GetHome 首页最新发布的文章
func (h *Handler) GetHome(c *gin.Context) {
	posts, err := h.PostService.Home()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"latest_posts": newPostViews(posts, time.Now())})
}

// GetPosts 公开文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	tagID, _ := strconv.ParseUint(c.Query("tag_id"), 10, 64)

	posts, total, err := h.PostService.ListPublic(repository.PostListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: uint(categoryID),
		TagID:      uint(tagID),
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, newPostViews(posts, time.Now()), response.BuildPagination(page, pageSize, total))
}

// GetPostDetail 文章详情与评论回复树
func (h *Handler) GetPostDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	viewer := handlershared.OptionalUser(c)

	post, err := h.PostService.GetDetail(id, viewer)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	comments, err := h.CommentService.ListForPost(post.ID, viewer)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if comments == nil {
		comments = []*service.CommentNode{}
	}

	response.Success(c, gin.H{
		"post":     PostView{Post: *post, WasPublishedRecently: post.PublishedRecently(time.Now())},
		"comments": comments,
	})
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// GetTags 标签列表
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.TagService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, tags)
}
