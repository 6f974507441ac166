package queue

import (
	"testing"

	"github.com/inkpost/internal/config"
)

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueCommentPendingNotice(CommentPendingNoticePayload{CommentID: 1, PostID: 2}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 5 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestCommentPendingNoticeTaskRoundTrip(t *testing.T) {
	task, err := NewCommentPendingNoticeTask(CommentPendingNoticePayload{CommentID: 9, PostID: 4})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskCommentPendingNotice {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseCommentPendingNoticePayload(task.Payload())
	if err != nil || payload.CommentID != 9 || payload.PostID != 4 {
		t.Fatalf("unexpected payload: %+v err=%v", payload, err)
	}
}
