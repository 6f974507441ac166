package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/queue"
	"github.com/inkpost/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	mailer service.Mailer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{Container: c}
	if c != nil && c.EmailService != nil {
		consumer.mailer = c.EmailService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCommentPendingNotice, c.handleCommentPendingNotice)
}

// handleCommentPendingNotice 通知文章作者与审核人员有评论等待审核
// 评论已被删除或已批准时直接跳过。
func (c *Consumer) handleCommentPendingNotice(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_comment_pending_notice_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCommentPendingNoticePayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_comment_pending_notice_unmarshal_failed", "error", err)
		return err
	}
	if payload.CommentID == 0 {
		logger.Debugw("worker_comment_pending_notice_skip_invalid_payload", "comment_id", payload.CommentID)
		return nil
	}
	comment, err := c.CommentRepo.GetByID(payload.CommentID)
	if err != nil {
		logger.Warnw("worker_comment_pending_notice_fetch_comment_failed", "comment_id", payload.CommentID, "error", err)
		return err
	}
	if comment == nil || comment.Approved {
		logger.Debugw("worker_comment_pending_notice_skip_settled", "comment_id", payload.CommentID)
		return nil
	}
	post, err := c.PostRepo.GetByID(comment.PostID)
	if err != nil {
		logger.Warnw("worker_comment_pending_notice_fetch_post_failed", "comment_id", comment.ID, "post_id", comment.PostID, "error", err)
		return err
	}
	if post == nil {
		logger.Debugw("worker_comment_pending_notice_skip_post_missing", "comment_id", comment.ID, "post_id", comment.PostID)
		return nil
	}
	moderators, err := c.UserRepo.ListModerators()
	if err != nil {
		logger.Warnw("worker_comment_pending_notice_fetch_moderators_failed", "comment_id", comment.ID, "error", err)
		return err
	}
	receivers := noticeReceivers(post.Author, moderators)
	if len(receivers) == 0 {
		logger.Debugw("worker_comment_pending_notice_skip_no_receiver", "comment_id", comment.ID, "post_id", comment.PostID)
		return nil
	}
	commenter, err := c.UserRepo.GetByID(comment.AuthorID)
	if err != nil {
		logger.Warnw("worker_comment_pending_notice_fetch_commenter_failed", "comment_id", comment.ID, "error", err)
		return err
	}
	if c.mailer == nil {
		logger.Warnw("worker_comment_pending_notice_skip_mailer_nil", "comment_id", comment.ID)
		return nil
	}

	subject, body := buildPendingNoticeMail(post, comment, commenter)
	if err := c.mailer.Send(subject, body, "", receivers); err != nil {
		logger.Warnw("worker_comment_pending_notice_send_failed",
			"comment_id", comment.ID,
			"post_id", post.ID,
			"receiver_count", len(receivers),
			"error", err,
		)
		return err
	}
	logger.Infow("worker_comment_pending_notice_sent", "comment_id", comment.ID, "post_id", post.ID, "receiver_count", len(receivers))
	return nil
}

// noticeReceivers 文章作者在前，其后为审核人员，按邮箱去重
func noticeReceivers(author *models.User, moderators []models.User) []string {
	seen := make(map[string]struct{})
	receivers := make([]string, 0, len(moderators)+1)
	add := func(email string) {
		email = strings.TrimSpace(email)
		key := strings.ToLower(email)
		if email == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		receivers = append(receivers, email)
	}
	if author != nil {
		add(author.Email)
	}
	for _, moderator := range moderators {
		add(moderator.Email)
	}
	return receivers
}

func buildPendingNoticeMail(post *models.Post, comment *models.Comment, commenter *models.User) (string, string) {
	name := "A reader"
	if commenter != nil && strings.TrimSpace(commenter.Username) != "" {
		name = commenter.Username
	}
	subject := fmt.Sprintf("New comment awaiting moderation on \"%s\"", post.Title)
	body := fmt.Sprintf(
		"Hello,\n\n%s left a comment on the post \"%s\" that is awaiting moderation:\n\n%s\n",
		name,
		post.Title,
		service.ContentPreview(comment.Content),
	)
	return subject, body
}
