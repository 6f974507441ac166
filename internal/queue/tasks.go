package queue

import (
	"encoding/json"

	"github.com/inkpost/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskCommentPendingNotice 待审核评论提醒任务
const TaskCommentPendingNotice = constants.TaskCommentPendingNotice

// CommentPendingNoticePayload 待审核评论提醒载荷
type CommentPendingNoticePayload struct {
	CommentID uint `json:"comment_id"`
	PostID    uint `json:"post_id"`
}

// NewCommentPendingNoticeTask 创建待审核评论提醒任务
func NewCommentPendingNoticeTask(payload CommentPendingNoticePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommentPendingNotice, body), nil
}

// ParseCommentPendingNoticePayload 解析待审核评论提醒载荷
func ParseCommentPendingNoticePayload(body []byte) (CommentPendingNoticePayload, error) {
	var payload CommentPendingNoticePayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}
