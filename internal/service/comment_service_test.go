package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/repository"
)

func TestCommentAutoApproval(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	staff := env.createUser(t, "staff", constants.RoleReader, true)
	admin := env.createUser(t, "admin", constants.RoleAdmin, false)
	otherAuthor := env.createUser(t, "other_author", constants.RoleAuthor, false)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	post := env.createPost(t, author, "Approval rules")

	cases := []struct {
		name  string
		actor *models.User
		live  bool
	}{
		{name: "post_author", actor: author, live: true},
		{name: "staff", actor: staff, live: true},
		{name: "admin_role", actor: admin, live: true},
		{name: "other_author", actor: otherAuthor, live: false},
		{name: "reader", actor: reader, live: false},
	}
	for _, tc := range cases {
		result, err := env.comments.Create(post.ID, tc.actor, "hello from "+tc.name, nil)
		if err != nil {
			t.Fatalf("%s: create failed: %v", tc.name, err)
		}
		if result.Live != tc.live || result.Comment.Approved != tc.live {
			t.Fatalf("%s: live=%v approved=%v want %v", tc.name, result.Live, result.Comment.Approved, tc.live)
		}
	}
}

func TestCommentCreateValidation(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	post := env.createPost(t, author, "First")
	otherPost := env.createPost(t, author, "Second")
	foreign, err := env.comments.Create(otherPost.ID, author, "elsewhere", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := env.comments.Create(9999, reader, "x", nil); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("want ErrPostNotFound, got %v", err)
	}
	if _, err := env.comments.Create(post.ID, reader, "   ", nil); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("want ErrContentRequired, got %v", err)
	}
	parentID := foreign.Comment.ID
	if _, err := env.comments.Create(post.ID, reader, "reply", &parentID); !errors.Is(err, ErrInvalidParent) {
		t.Fatalf("want ErrInvalidParent, got %v", err)
	}
	if _, err := env.comments.Create(post.ID, nil, "anon", nil); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied for anonymous, got %v", err)
	}
}

func TestCommentEditDeletePermissions(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	owner := env.createUser(t, "owner", constants.RoleReader, false)
	stranger := env.createUser(t, "stranger", constants.RoleAuthor, false)
	staff := env.createUser(t, "staff", constants.RoleReader, true)
	post := env.createPost(t, author, "Permissions")

	created, err := env.comments.Create(post.ID, owner, "original", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	commentID := created.Comment.ID

	if _, err := env.comments.Edit(commentID, stranger, "hijacked"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if _, err := env.comments.Edit(commentID, author, "post author is not comment owner"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("post author must not edit others' comments, got %v", err)
	}
	stored, _ := env.commentRepo.GetByID(commentID)
	if stored.Content != "original" {
		t.Fatalf("denied edit mutated content: %q", stored.Content)
	}

	edited, err := env.comments.Edit(commentID, owner, "revised")
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if edited.Content != "revised" || edited.Approved {
		t.Fatalf("edit must keep approval state: %+v", edited)
	}
	if _, err := env.comments.Edit(commentID, staff, "moderated"); err != nil {
		t.Fatalf("staff edit failed: %v", err)
	}

	if _, err := env.comments.Delete(commentID, stranger, ModerationMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if stored, _ := env.commentRepo.GetByID(commentID); stored == nil {
		t.Fatalf("denied delete removed the comment")
	}
	if _, err := env.comments.Delete(commentID, staff, ModerationMeta{RequestID: "req-1"}); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
	if _, err := env.comments.Delete(commentID, staff, ModerationMeta{}); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("want ErrCommentNotFound, got %v", err)
	}

	logs, total, err := env.logs.List(repository.ModerationLogListFilter{Action: constants.ModerationActionDelete})
	if err != nil || total != 1 {
		t.Fatalf("moderation log count = %d, err = %v", total, err)
	}
	if logs[0].OperatorID != staff.ID || logs[0].RequestID != "req-1" {
		t.Fatalf("unexpected log: %+v", logs[0])
	}
}

func TestCommentDeleteRemovesReplySubtree(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	post := env.createPost(t, author, "Threads")

	root, err := env.comments.Create(post.ID, author, "root", nil)
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	parentID := root.Comment.ID
	for depth := 0; depth < 50; depth++ {
		id := parentID
		reply, err := env.comments.Create(post.ID, author, "reply", &id)
		if err != nil {
			t.Fatalf("create reply failed: %v", err)
		}
		parentID = reply.Comment.ID
	}
	sibling, err := env.comments.Create(post.ID, author, "sibling", nil)
	if err != nil {
		t.Fatalf("create sibling failed: %v", err)
	}

	deleted, err := env.comments.Delete(root.Comment.ID, author, ModerationMeta{})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 51 {
		t.Fatalf("deleted = %d, want 51", deleted)
	}
	remaining, err := env.commentRepo.ListByPost(post.ID, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != sibling.Comment.ID {
		t.Fatalf("unexpected remaining comments: %+v", remaining)
	}
}

func TestApproveAndPendingQueue(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	staff := env.createUser(t, "staff", constants.RoleReader, true)
	post := env.createPost(t, author, "Queue")

	first, _ := env.comments.Create(post.ID, reader, "first", nil)
	second, _ := env.comments.Create(post.ID, reader, "second", nil)

	if _, err := env.comments.ListPending(reader); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("reader must not see the moderation queue, got %v", err)
	}
	if _, err := env.comments.ListPending(author); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("post author without staff flag must not see the queue, got %v", err)
	}
	pending, err := env.comments.ListPending(staff)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.Comment.ID || pending[1].ID != second.Comment.ID {
		t.Fatalf("pending queue should be oldest first: %+v", pending)
	}

	if _, err := env.comments.Approve(first.Comment.ID, author, ModerationMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if _, err := env.comments.Approve(9999, staff, ModerationMeta{}); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("want ErrCommentNotFound, got %v", err)
	}
	approved, err := env.comments.Approve(first.Comment.ID, staff, ModerationMeta{})
	if err != nil || !approved.Approved {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := env.comments.Approve(first.Comment.ID, staff, ModerationMeta{}); err != nil {
		t.Fatalf("second approve should be a no-op, got %v", err)
	}
	_, total, _ := env.logs.List(repository.ModerationLogListFilter{Action: constants.ModerationActionApprove})
	if total != 1 {
		t.Fatalf("idempotent approve should log once, got %d", total)
	}

	pending, _ = env.comments.ListPending(staff)
	if len(pending) != 1 || pending[0].ID != second.Comment.ID {
		t.Fatalf("approved comment should leave the queue: %+v", pending)
	}
}

func TestListForPostBuildsVisibleTree(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	staff := env.createUser(t, "staff", constants.RoleReader, true)
	post := env.createPost(t, author, "Tree")

	root, _ := env.comments.Create(post.ID, author, "root", nil)
	rootID := root.Comment.ID
	reply, _ := env.comments.Create(post.ID, author, "reply", &rootID)
	pending, _ := env.comments.Create(post.ID, reader, "pending", &rootID)
	pendingID := pending.Comment.ID
	if _, err := env.comments.Create(post.ID, author, "under pending", &pendingID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	public, err := env.comments.ListForPost(post.ID, reader)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(public) != 1 || len(public[0].Replies) != 1 || public[0].Replies[0].ID != reply.Comment.ID {
		t.Fatalf("public tree should hide pending branch: %+v", public)
	}

	moderated, err := env.comments.ListForPost(post.ID, staff)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(moderated) != 1 || len(moderated[0].Replies) != 2 || len(moderated[0].Replies[1].Replies) != 1 {
		t.Fatalf("moderators should see the full tree: %+v", moderated)
	}
}

func TestBulkApproveAndDisapprove(t *testing.T) {
	env := newServiceTestEnv(t)
	author := env.createUser(t, "author", constants.RoleAuthor, false)
	reader := env.createUser(t, "reader", constants.RoleReader, false)
	admin := env.createUser(t, "admin", constants.RoleAdmin, false)
	post := env.createPost(t, author, "Bulk")

	var ids []uint
	for i := 0; i < 3; i++ {
		result, _ := env.comments.Create(post.ID, reader, "c", nil)
		ids = append(ids, result.Comment.ID)
	}
	live, _ := env.comments.Create(post.ID, author, "live", nil)

	if _, err := env.comments.BulkApprove(ids, reader, ModerationMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	affected, err := env.comments.BulkApprove(append(ids, live.Comment.ID), admin, ModerationMeta{RequestID: "bulk-1"})
	if err != nil {
		t.Fatalf("bulk approve failed: %v", err)
	}
	if affected != 3 {
		t.Fatalf("affected = %d, want 3", affected)
	}
	affected, err = env.comments.BulkDisapprove([]uint{ids[0], ids[0]}, admin, ModerationMeta{})
	if err != nil || affected != 1 {
		t.Fatalf("bulk disapprove affected=%d err=%v", affected, err)
	}
	if _, err := env.comments.BulkApprove(nil, admin, ModerationMeta{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty selection should be a validation error, got %v", err)
	}

	logs, total, _ := env.logs.List(repository.ModerationLogListFilter{})
	if total != 2 {
		t.Fatalf("moderation logs = %d, want 2", total)
	}
	for _, log := range logs {
		if log.Action == constants.ModerationActionBulkApprove && (log.Affected != 3 || len(log.TargetIDs) != 4) {
			t.Fatalf("unexpected bulk approve log: %+v", log)
		}
	}
}

func TestContentPreview(t *testing.T) {
	short := "short comment"
	if ContentPreview(short) != short {
		t.Fatalf("short content should be unchanged")
	}
	long := strings.Repeat("é", 60)
	preview := ContentPreview(long)
	if preview != strings.Repeat("é", 50)+"..." {
		t.Fatalf("unexpected preview: %q", preview)
	}
}

func TestBlogScenario(t *testing.T) {
	env := newServiceTestEnv(t)
	authorA := env.createUser(t, "alice", constants.RoleAuthor, false)
	readerR := env.createUser(t, "rick", constants.RoleReader, false)
	staffS := env.createUser(t, "sam", constants.RoleReader, true)

	post, err := env.posts.Create(authorA, PostInput{Title: "Hello World", Content: "first post", Status: constants.PostStatusDraft})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if post.PublishedAt != nil {
		t.Fatalf("draft should not carry published_at")
	}
	published, err := env.posts.Update(authorA, post.ID, PostInput{Title: "Hello World", Slug: post.Slug, Content: "first post", Status: constants.PostStatusPublished})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatalf("publishing should stamp published_at")
	}
	t1 := *published.PublishedAt

	rComment, err := env.comments.Create(post.ID, readerR, "nice post", nil)
	if err != nil || rComment.Live {
		t.Fatalf("reader comment should be pending: %+v, %v", rComment, err)
	}
	if _, err := env.comments.Approve(rComment.Comment.ID, staffS, ModerationMeta{}); err != nil {
		t.Fatalf("staff approve failed: %v", err)
	}
	again, err := env.comments.Approve(rComment.Comment.ID, staffS, ModerationMeta{})
	if err != nil || !again.Approved {
		t.Fatalf("repeat approve should succeed as a no-op: %v", err)
	}

	parentID := rComment.Comment.ID
	aReply, err := env.comments.Create(post.ID, authorA, "thanks!", &parentID)
	if err != nil || !aReply.Live {
		t.Fatalf("author reply should be live: %+v, %v", aReply, err)
	}
	if _, err := env.comments.Delete(aReply.Comment.ID, readerR, ModerationMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("reader deleting author's reply: want ErrPermissionDenied, got %v", err)
	}

	resaved, err := env.posts.Update(authorA, post.ID, PostInput{Title: "Hello World again", Slug: post.Slug, Content: "edited", Status: constants.PostStatusPublished})
	if err != nil {
		t.Fatalf("resave failed: %v", err)
	}
	if resaved.PublishedAt == nil || !resaved.PublishedAt.Equal(t1) {
		t.Fatalf("published_at changed on resave: %v vs %v", resaved.PublishedAt, t1)
	}
}
