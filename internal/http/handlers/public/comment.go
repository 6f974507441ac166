package public

import (
	"github.com/inkpost/internal/constants"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/models"

	"github.com/gin-gonic/gin"
)

// CommentRequest 发表评论请求
type CommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// UpdateCommentRequest 编辑评论请求
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment 发表评论或回复
func (h *Handler) CreateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := parseID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.CommentService.Create(postID, user, req.Content, req.ParentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.Live {
		successNotice(c, result.Comment, "message.comment_published")
		return
	}
	response.SuccessWithMessages(c, result.Comment, []response.Message{
		handlershared.Notice(c, constants.MessageLevelInfo, "message.comment_pending"),
	})
}

// UpdateComment 作者或审核员编辑评论
func (h *Handler) UpdateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	comment, err := h.CommentService.Edit(id, user, req.Content)
	if err != nil {
		respondServiceError(c, err, denied("error.comment_edit_denied"))
		return
	}
	successNotice(c, comment, "message.comment_updated")
}

// DeleteComment 作者或审核员删除评论及其全部回复
func (h *Handler) DeleteComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.CommentService.Delete(id, user, moderationMeta(c))
	if err != nil {
		respondServiceError(c, err, denied("error.comment_delete_denied"))
		return
	}
	successNotice(c, gin.H{"id": id, "deleted": deleted}, "message.comment_deleted")
}

// ApproveComment 审核员批准评论
func (h *Handler) ApproveComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	comment, err := h.CommentService.Approve(id, user, moderationMeta(c))
	if err != nil {
		respondServiceError(c, err, denied("error.moderation_denied"))
		return
	}
	successNotice(c, comment, "message.comment_approved")
}

// ListPendingComments 审核面板：全部待审核评论
func (h *Handler) ListPendingComments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	comments, err := h.CommentService.ListPending(user)
	if err != nil {
		respondServiceError(c, err, denied("error.moderation_denied"))
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	response.Success(c, gin.H{
		"pending_comments": comments,
		"total":            len(comments),
	})
}
