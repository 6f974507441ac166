package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Messages   []struct {
		Level string `json:"level"`
		Text  string `json:"text"`
	} `json:"messages"`
}

type routerFixture struct {
	db        *gorm.DB
	container *provider.Container
	engine    *gin.Engine
	users     map[string]*models.User
	tokens    map[string]string
	post      *models.Post
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:router_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Tag{}, &models.Post{}, &models.Comment{}, &models.ModerationLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Site.BaseURL = "http://blog.test"
	cfg.UserJWT.SecretKey = "router-test-secret-with-enough-length"
	cfg.UserJWT.ExpireHours = 1

	container, err := provider.NewContainerWithDB(cfg, db, nil)
	if err != nil {
		t.Fatalf("build container failed: %v", err)
	}

	fx := &routerFixture{
		db:        db,
		container: container,
		engine:    SetupRouter(cfg, container),
		users:     make(map[string]*models.User),
		tokens:    make(map[string]string),
	}
	fx.addUser(t, "root", constants.RoleAdmin, false)
	fx.addUser(t, "mod", constants.RoleReader, true)
	fx.addUser(t, "writer", constants.RoleAuthor, false)
	fx.addUser(t, "reader", constants.RoleReader, false)

	post, err := container.PostService.Create(fx.users["writer"], service.PostInput{
		Title:   "Hello Router",
		Content: "body",
		Status:  constants.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	fx.post = post
	return fx
}

func (fx *routerFixture) addUser(t *testing.T, username string, role constants.Role, staff bool) {
	t.Helper()
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  "x",
		Role:          role,
		IsStaff:       staff,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := fx.container.UserRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := fx.container.AccountService.GenerateUserJWT(user, 0)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	fx.users[username] = user
	fx.tokens[username] = token
}

func (fx *routerFixture) do(t *testing.T, method, path, username string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := fx.tokens[username]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: unmarshal failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func TestUserAuthRejectsMissingAndForgedTokens(t *testing.T) {
	fx := newRouterFixture(t)

	if resp := fx.do(t, http.MethodGet, "/api/v1/me", "", nil); resp.StatusCode != 401 {
		t.Fatalf("missing token want 401 got %d", resp.StatusCode)
	}

	fx.tokens["forger"] = fx.tokens["reader"] + "x"
	if resp := fx.do(t, http.MethodGet, "/api/v1/me", "forger", nil); resp.StatusCode != 401 {
		t.Fatalf("forged token want 401 got %d", resp.StatusCode)
	}

	resp := fx.do(t, http.MethodGet, "/api/v1/me", "reader", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("valid token want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var me struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(resp.Data, &me); err != nil || me.Username != "reader" {
		t.Fatalf("unexpected me payload: %s", string(resp.Data))
	}
}

func TestLogoutRevokesIssuedToken(t *testing.T) {
	fx := newRouterFixture(t)

	if resp := fx.do(t, http.MethodPost, "/api/v1/me/logout", "reader", nil); resp.StatusCode != 0 {
		t.Fatalf("logout want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	if resp := fx.do(t, http.MethodGet, "/api/v1/me", "reader", nil); resp.StatusCode != 401 {
		t.Fatalf("revoked token want 401 got %d", resp.StatusCode)
	}
}

func TestDeactivatedUserTokenRejected(t *testing.T) {
	fx := newRouterFixture(t)

	if err := fx.db.Model(&models.User{}).Where("id = ?", fx.users["reader"].ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user failed: %v", err)
	}
	if resp := fx.do(t, http.MethodGet, "/api/v1/me", "reader", nil); resp.StatusCode != 401 {
		t.Fatalf("inactive user want 401 got %d", resp.StatusCode)
	}
}

func TestAdminRBACByRoleAndStaffFlag(t *testing.T) {
	fx := newRouterFixture(t)

	cases := []struct {
		user string
		path string
		want int
	}{
		{"root", "/api/v1/admin/users", 0},
		{"root", "/api/v1/admin/comments", 0},
		{"mod", "/api/v1/admin/comments", 0},
		{"mod", "/api/v1/admin/moderation-logs", 0},
		{"mod", "/api/v1/admin/users", 403},
		{"writer", "/api/v1/admin/comments", 403},
		{"reader", "/api/v1/admin/posts", 403},
		{"", "/api/v1/admin/comments", 401},
	}
	for _, tc := range cases {
		resp := fx.do(t, http.MethodGet, tc.path, tc.user, nil)
		if resp.StatusCode != tc.want {
			t.Fatalf("%q GET %s want %d got %d (%s)", tc.user, tc.path, tc.want, resp.StatusCode, resp.Msg)
		}
	}
}

func TestCommentModerationFlow(t *testing.T) {
	fx := newRouterFixture(t)
	postPath := fmt.Sprintf("/api/v1/public/posts/%d", fx.post.ID)

	created := fx.do(t, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", fx.post.ID), "reader", gin.H{"content": "first!"})
	if created.StatusCode != 0 {
		t.Fatalf("create comment want 0 got %d (%s)", created.StatusCode, created.Msg)
	}
	var comment models.Comment
	if err := json.Unmarshal(created.Data, &comment); err != nil {
		t.Fatalf("unmarshal comment failed: %v", err)
	}
	if comment.Approved {
		t.Fatalf("reader comment should wait for moderation")
	}

	countComments := func(username string) int {
		detail := fx.do(t, http.MethodGet, postPath, username, nil)
		var payload struct {
			Comments []json.RawMessage `json:"comments"`
		}
		if err := json.Unmarshal(detail.Data, &payload); err != nil {
			t.Fatalf("unmarshal detail failed: %v", err)
		}
		return len(payload.Comments)
	}
	if got := countComments(""); got != 0 {
		t.Fatalf("guest should not see pending comment, got %d", got)
	}
	if got := countComments("reader"); got != 0 {
		t.Fatalf("commenter should not see pending comment, got %d", got)
	}
	if got := countComments("mod"); got != 1 {
		t.Fatalf("moderator should see pending comment, got %d", got)
	}

	approvePath := fmt.Sprintf("/api/v1/comments/%d/approve", comment.ID)
	if denied := fx.do(t, http.MethodPost, approvePath, "reader", nil); denied.StatusCode != 403 {
		t.Fatalf("reader approve want 403 got %d", denied.StatusCode)
	}
	if ok := fx.do(t, http.MethodPost, approvePath, "mod", nil); ok.StatusCode != 0 {
		t.Fatalf("staff approve want 0 got %d (%s)", ok.StatusCode, ok.Msg)
	}
	if got := countComments(""); got != 1 {
		t.Fatalf("guest should see approved comment, got %d", got)
	}

	var logs int64
	if err := fx.db.Model(&models.ModerationLog{}).Count(&logs).Error; err != nil || logs != 1 {
		t.Fatalf("moderation log want 1 got %d (%v)", logs, err)
	}
}

func TestRegistryRoutesAreMounted(t *testing.T) {
	fx := newRouterFixture(t)
	if missing := missingRegistryRoutes(fx.engine); len(missing) != 0 {
		t.Fatalf("registry routes not mounted: %v", missing)
	}
}

func TestAdminUserDeleteIsAdminOnlyAndCascades(t *testing.T) {
	fx := newRouterFixture(t)
	writerPath := fmt.Sprintf("/api/v1/admin/users/%d", fx.users["writer"].ID)

	if resp := fx.do(t, http.MethodDelete, writerPath, "mod", nil); resp.StatusCode != 403 {
		t.Fatalf("staff delete want 403 got %d", resp.StatusCode)
	}
	self := fmt.Sprintf("/api/v1/admin/users/%d", fx.users["root"].ID)
	if resp := fx.do(t, http.MethodDelete, self, "root", nil); resp.StatusCode != 400 {
		t.Fatalf("self delete want 400 got %d", resp.StatusCode)
	}
	if resp := fx.do(t, http.MethodDelete, "/api/v1/admin/users/9999", "root", nil); resp.StatusCode != 404 {
		t.Fatalf("missing user want 404 got %d", resp.StatusCode)
	}
	if resp := fx.do(t, http.MethodDelete, writerPath, "root", nil); resp.StatusCode != 0 {
		t.Fatalf("admin delete want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	var posts int64
	if err := fx.db.Model(&models.Post{}).Where("id = ?", fx.post.ID).Count(&posts).Error; err != nil || posts != 0 {
		t.Fatalf("deleted user's post should be gone, count=%d err=%v", posts, err)
	}
	if resp := fx.do(t, http.MethodGet, "/api/v1/me", "writer", nil); resp.StatusCode != 401 {
		t.Fatalf("deleted user's token want 401 got %d", resp.StatusCode)
	}
}

func TestRegistryShowsEffectivePolicies(t *testing.T) {
	fx := newRouterFixture(t)

	type registryView struct {
		Entities []struct {
			Entity     string `json:"entity"`
			Operations []struct {
				Method string `json:"method"`
				Path   string `json:"path"`
			} `json:"operations"`
		} `json:"entities"`
		Subjects []string `json:"subjects"`
		Roles    []string `json:"roles"`
		Policies []struct {
			Subject string `json:"subject"`
			Object  string `json:"object"`
			Action  string `json:"action"`
		} `json:"policies"`
	}
	load := func(username string) registryView {
		resp := fx.do(t, http.MethodGet, "/api/v1/admin/registry", username, nil)
		if resp.StatusCode != 0 {
			t.Fatalf("%s registry want 0 got %d (%s)", username, resp.StatusCode, resp.Msg)
		}
		var view registryView
		if err := json.Unmarshal(resp.Data, &view); err != nil {
			t.Fatalf("unmarshal registry failed: %v", err)
		}
		return view
	}

	mod := load("mod")
	if len(mod.Subjects) != 1 || mod.Subjects[0] != "role:staff" {
		t.Fatalf("unexpected staff subjects: %v", mod.Subjects)
	}
	if len(mod.Roles) != 2 {
		t.Fatalf("unexpected roles: %v", mod.Roles)
	}
	for _, policy := range mod.Policies {
		if policy.Subject != "role:staff" || policy.Object == "/admin/users/:id" {
			t.Fatalf("staff got unexpected policy: %+v", policy)
		}
	}
	for _, entity := range mod.Entities {
		if entity.Entity == "user" {
			t.Fatalf("staff should not see user management")
		}
	}

	root := load("root")
	canDeleteUser := false
	for _, policy := range root.Policies {
		if policy.Object == "/admin/users/:id" && policy.Action == "DELETE" {
			canDeleteUser = true
		}
	}
	if !canDeleteUser || len(root.Policies) <= len(mod.Policies) {
		t.Fatalf("admin policies incomplete: %d", len(root.Policies))
	}
}
