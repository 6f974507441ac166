package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

func TestMatchErrorRule(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		overrides []ErrorRule
		wantCode  int
		wantKey   string
	}{
		{"specific not found", service.ErrCommentNotFound, nil, response.CodeNotFound, "error.comment_not_found"},
		{"wrapped expired link", fmt.Errorf("verify: %w", service.ErrLinkExpired), nil, response.CodeLinkExpired, "error.verify_link_expired"},
		{"delivery family", service.ErrEmailRecipientRejected, nil, response.CodeDeliveryFailed, "error.email_delivery_failed"},
		{"validation family", service.ErrInvalidInput, nil, response.CodeBadRequest, "error.invalid_input"},
		{
			"override wins",
			service.ErrPermissionDenied,
			[]ErrorRule{{Target: service.ErrPermissionDenied, Code: response.CodeForbidden, Key: "error.comment_delete_denied"}},
			response.CodeForbidden,
			"error.comment_delete_denied",
		},
	}
	for _, tc := range cases {
		rule, ok := MatchErrorRule(tc.err, tc.overrides...)
		if !ok {
			t.Fatalf("%s: expected a rule", tc.name)
		}
		if rule.Code != tc.wantCode || rule.Key != tc.wantKey {
			t.Fatalf("%s: want %d/%s got %d/%s", tc.name, tc.wantCode, tc.wantKey, rule.Code, rule.Key)
		}
	}

	if _, ok := MatchErrorRule(errors.New("boom")); ok {
		t.Fatalf("unknown error should not match")
	}
}

func TestRespondServiceErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidLink, response.CodeBadRequest},
		{service.ErrLinkExpired, response.CodeLinkExpired},
		{service.ErrPermissionDenied, response.CodeForbidden},
		{errors.New("db down"), response.CodeInternal},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondServiceError(c, tc.err)

		if w.Code != http.StatusOK {
			t.Fatalf("%v: http status want 200 got %d", tc.err, w.Code)
		}
		var resp response.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%v: status_code want %d got %d", tc.err, tc.want, resp.StatusCode)
		}
		if len(resp.Messages) != 1 || resp.Messages[0].Level != "error" || resp.Messages[0].Text != resp.Msg {
			t.Fatalf("%v: expected a single error message, got %+v", tc.err, resp.Messages)
		}
	}
}
