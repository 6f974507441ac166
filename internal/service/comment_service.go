package service

import (
	"strings"
	"time"

	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/repository"
)

// CommentService 评论业务服务
// 状态流转：创建 -> 待审核/已批准；待审核 -> 已批准；任意状态 -> 删除。
type CommentService struct {
	repo        repository.CommentRepository
	postRepo    repository.PostRepository
	logService  *ModerationLogService
	queueClient *queue.Client
	now         func() time.Time
}

// NewCommentService 创建评论服务
func NewCommentService(repo repository.CommentRepository, postRepo repository.PostRepository, logService *ModerationLogService, queueClient *queue.Client) *CommentService {
	return &CommentService{
		repo:        repo,
		postRepo:    postRepo,
		logService:  logService,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// CommentResult 创建评论结果，Live 表示评论已直接公开
type CommentResult struct {
	Comment *models.Comment
	Live    bool
}

// CommentNode 评论回复树节点
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
}

// ModerationMeta 审核操作附带的请求信息
type ModerationMeta struct {
	RequestID string
}

// Create 发表评论
// 文章作者与审核员的评论直接公开，其余进入待审核。
func (s *CommentService) Create(postID uint, author *models.User, content string, parentID *uint) (*CommentResult, error) {
	if author == nil || author.ID == 0 {
		return nil, ErrPermissionDenied
	}
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	var parentRef *uint
	if parentID != nil && *parentID != 0 {
		parent, err := s.repo.GetByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, ErrInvalidParent
		}
		id := parent.ID
		parentRef = &id
	}

	now := s.now()
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		ParentID:  parentRef,
		Content:   content,
		Approved:  authz.IsPublisher(author, post),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	comment.Author = author

	if comment.Approved {
		logger.Infow("comment_created_live", "comment_id", comment.ID, "post_id", post.ID, "author_id", author.ID)
	} else {
		logger.Infow("comment_created_pending", "comment_id", comment.ID, "post_id", post.ID, "author_id", author.ID)
		s.enqueuePendingNotice(comment)
	}
	return &CommentResult{Comment: comment, Live: comment.Approved}, nil
}

// Edit 修改评论内容，不改变审核状态
func (s *CommentService) Edit(commentID uint, actor *models.User, content string) (*models.Comment, error) {
	comment, err := s.getComment(commentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(actor, comment.AuthorID) {
		return nil, ErrPermissionDenied
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	comment.Content = content
	if err := s.repo.UpdateContent(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete 删除评论及其全部回复，返回删除条数
func (s *CommentService) Delete(commentID uint, actor *models.User, meta ModerationMeta) (int64, error) {
	comment, err := s.getComment(commentID)
	if err != nil {
		return 0, err
	}
	if !authz.CanModify(actor, comment.AuthorID) {
		return 0, ErrPermissionDenied
	}
	deleted, err := s.repo.DeleteTree(comment.ID)
	if err != nil {
		return 0, err
	}
	if actor.ID != comment.AuthorID {
		s.record(ModerationRecordInput{
			Operator:  actor,
			Action:    constants.ModerationActionDelete,
			TargetIDs: []uint{comment.ID},
			Affected:  deleted,
			RequestID: meta.RequestID,
			Detail:    models.JSON{"post_id": comment.PostID, "author_id": comment.AuthorID},
		})
	}
	logger.Infow("comment_deleted", "comment_id", comment.ID, "operator_id", actor.ID, "deleted", deleted)
	return deleted, nil
}

// Approve 批准评论，已批准的评论重复操作视为成功
func (s *CommentService) Approve(commentID uint, actor *models.User, meta ModerationMeta) (*models.Comment, error) {
	if !authz.CanModerate(actor) {
		return nil, ErrPermissionDenied
	}
	comment, err := s.getComment(commentID)
	if err != nil {
		return nil, err
	}
	if comment.Approved {
		return comment, nil
	}
	if err := s.repo.MarkApproved(comment.ID); err != nil {
		return nil, err
	}
	comment.Approved = true
	s.record(ModerationRecordInput{
		Operator:  actor,
		Action:    constants.ModerationActionApprove,
		TargetIDs: []uint{comment.ID},
		Affected:  1,
		RequestID: meta.RequestID,
		Detail:    models.JSON{"post_id": comment.PostID},
	})
	return comment, nil
}

// ListPending 待审核评论，最早提交的在前
func (s *CommentService) ListPending(actor *models.User) ([]models.Comment, error) {
	if !authz.CanModerate(actor) {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListPending()
}

// ListForPost 文章评论回复树，审核员可见待审核评论
func (s *CommentService) ListForPost(postID uint, viewer *models.User) ([]*CommentNode, error) {
	comments, err := s.repo.ListByPost(postID, !authz.CanModerate(viewer))
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// List 管理端评论列表
func (s *CommentService) List(filter repository.CommentListFilter) ([]models.Comment, int64, error) {
	return s.repo.List(filter)
}

// ReplyCounts 评论直接回复数量
func (s *CommentService) ReplyCounts(comments []models.Comment) (map[uint]int64, error) {
	ids := make([]uint, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}
	return s.repo.ReplyCounts(ids)
}

// BulkApprove 批量批准，不发送通知
func (s *CommentService) BulkApprove(ids []uint, actor *models.User, meta ModerationMeta) (int64, error) {
	return s.bulkSetApproved(ids, actor, true, meta)
}

// BulkDisapprove 批量撤回批准
func (s *CommentService) BulkDisapprove(ids []uint, actor *models.User, meta ModerationMeta) (int64, error) {
	return s.bulkSetApproved(ids, actor, false, meta)
}

func (s *CommentService) bulkSetApproved(ids []uint, actor *models.User, approved bool, meta ModerationMeta) (int64, error) {
	if !authz.CanModerate(actor) {
		return 0, ErrPermissionDenied
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	affected, err := s.repo.BatchSetApproved(ids, approved)
	if err != nil {
		return 0, err
	}
	action := constants.ModerationActionBulkApprove
	if !approved {
		action = constants.ModerationActionBulkDisapprove
	}
	s.record(ModerationRecordInput{
		Operator:  actor,
		Action:    action,
		TargetIDs: ids,
		Affected:  affected,
		RequestID: meta.RequestID,
	})
	return affected, nil
}

func (s *CommentService) getComment(id uint) (*models.Comment, error) {
	comment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *CommentService) record(input ModerationRecordInput) {
	if err := s.logService.Record(input); err != nil {
		logger.Warnw("moderation_log_record_failed", "action", input.Action, "error", err)
	}
}

func (s *CommentService) enqueuePendingNotice(comment *models.Comment) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueCommentPendingNotice(queue.CommentPendingNoticePayload{
		CommentID: comment.ID,
		PostID:    comment.PostID,
	})
	if err != nil {
		logger.Warnw("comment_pending_notice_enqueue_failed", "comment_id", comment.ID, "error", err)
	}
}

// BuildCommentTree 按 parent_id 组装回复树
// 输入需按创建顺序排列；父评论不在列表中的回复连同其后代一起隐藏。
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	index := make(map[uint]*CommentNode, len(comments))
	roots := make([]*CommentNode, 0)
	for i := range comments {
		node := &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
		if node.ParentID == nil {
			index[node.ID] = node
			roots = append(roots, node)
			continue
		}
		parent, ok := index[*node.ParentID]
		if !ok {
			continue
		}
		index[node.ID] = node
		parent.Replies = append(parent.Replies, node)
	}
	return roots
}

// ContentPreview 截取评论内容预览
func ContentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= constants.ContentPreviewLength {
		return content
	}
	return string(runes[:constants.ContentPreviewLength]) + "..."
}
