package public

import (
	"time"

	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 创建/更新文章请求
type PostRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
	Status     string `json:"status"`
	CoverImage string `json:"cover_image"`
}

// ToServiceInput 转换为 service 层文章参数
func (r PostRequest) ToServiceInput() service.PostInput {
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

// CreatePost 作者发布文章
func (h *Handler) CreatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Create(user, req.ToServiceInput())
	if err != nil {
		respondServiceError(c, err, denied("error.post_create_denied"))
		return
	}
	successNotice(c, PostView{Post: *post, WasPublishedRecently: post.PublishedRecently(time.Now())}, "message.post_created")
}

// UpdatePost 作者或审核员更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Update(user, id, req.ToServiceInput())
	if err != nil {
		respondServiceError(c, err, denied("error.post_edit_denied"))
		return
	}
	successNotice(c, PostView{Post: *post, WasPublishedRecently: post.PublishedRecently(time.Now())}, "message.post_updated")
}

// DeletePost 作者或审核员删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PostService.Delete(user, id); err != nil {
		respondServiceError(c, err, denied("error.post_delete_denied"))
		return
	}
	successNotice(c, gin.H{"id": id}, "message.post_deleted")
}
