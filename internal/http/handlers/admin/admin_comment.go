package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/inkpost/internal/constants"
	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminCommentItem 后台评论列表项
type AdminCommentItem struct {
	ID             uint      `json:"id"`
	PostID         uint      `json:"post_id"`
	PostTitle      string    `json:"post"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author"`
	ParentID       *uint     `json:"parent_id"`
	ContentPreview string    `json:"content_preview"`
	Approved       bool      `json:"approved"`
	HasReplies     bool      `json:"has_replies"`
	CreatedAt      time.Time `json:"created_at"`
}

// BulkCommentRequest 批量审核请求
type BulkCommentRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// GetAdminComments 获取评论列表 (Admin)
func (h *Handler) GetAdminComments(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	postID, _ := strconv.ParseUint(c.Query("post_id"), 10, 64)

	comments, total, err := h.CommentService.List(repository.CommentListFilter{
		Page:     page,
		PageSize: pageSize,
		PostID:   uint(postID),
		Approved: handlershared.OptionalBoolQuery(c, "approved"),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	replyCounts, err := h.CommentService.ReplyCounts(comments)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	items := make([]AdminCommentItem, 0, len(comments))
	for _, comment := range comments {
		item := AdminCommentItem{
			ID:             comment.ID,
			PostID:         comment.PostID,
			AuthorID:       comment.AuthorID,
			ParentID:       comment.ParentID,
			ContentPreview: service.ContentPreview(comment.Content),
			Approved:       comment.Approved,
			HasReplies:     replyCounts[comment.ID] > 0,
			CreatedAt:      comment.CreatedAt,
		}
		if comment.Post != nil {
			item.PostTitle = comment.Post.Title
		}
		if comment.Author != nil {
			item.AuthorUsername = comment.Author.Username
		}
		items = append(items, item)
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// BulkApproveComments 批量批准评论
func (h *Handler) BulkApproveComments(c *gin.Context) {
	h.bulkModerate(c, true)
}

// BulkDisapproveComments 批量取消批准评论
func (h *Handler) BulkDisapproveComments(c *gin.Context) {
	h.bulkModerate(c, false)
}

func (h *Handler) bulkModerate(c *gin.Context, approve bool) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	var req BulkCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var (
		affected int64
		err      error
		key      string
	)
	if approve {
		affected, err = h.CommentService.BulkApprove(req.IDs, operator, moderationMeta(c))
		key = "message.comments_approved"
	} else {
		affected, err = h.CommentService.BulkDisapprove(req.IDs, operator, moderationMeta(c))
		key = "message.comments_disapproved"
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_comments_bulk_moderated",
		"operator_id", operator.ID,
		"approve", approve,
		"selected", len(req.IDs),
		"affected", affected,
	)
	response.SuccessWithMessages(c, gin.H{"affected": affected}, []response.Message{
		handlershared.Notice(c, constants.MessageLevelSuccess, key, affected),
	})
}

// DeleteComment 删除评论及其全部回复
func (h *Handler) DeleteComment(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := h.CommentService.Delete(id, operator, moderationMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMessages(c, gin.H{"id": id, "deleted": removed}, []response.Message{
		handlershared.Notice(c, constants.MessageLevelSuccess, "message.comment_deleted"),
	})
}

// GetModerationLogs 获取审核日志
func (h *Handler) GetModerationLogs(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	operatorID, _ := strconv.ParseUint(c.Query("operator_id"), 10, 64)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	logs, total, err := h.ModerationLogService.List(repository.ModerationLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		OperatorID:  uint(operatorID),
		Action:      strings.TrimSpace(c.Query("action")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}

// parseTimeNullable 解析 RFC3339 或 2006-01-02 格式时间，空串返回 nil
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
