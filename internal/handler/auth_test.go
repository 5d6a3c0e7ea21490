package handler_test

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/glab/space-reservation/internal/config"
	"github.com/glab/space-reservation/internal/handler"
	"github.com/glab/space-reservation/internal/repository"
)

func newAuthHandler(t *testing.T) *handler.AuthHandler {
	t.Helper()
	users, err := repository.NewFileUserStore(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("user store: %v", err)
	}
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
	}
	return handler.NewAuthHandler(cfg, users, repository.NewMemoryTokenStore())
}

func decodeAuth(t *testing.T, body []byte) (user, access, refresh string) {
	t.Helper()
	var resp struct {
		User struct {
			Username  string `json:"username"`
			StudentID string `json:"student_id"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	return resp.User.Username, resp.Access.Token, resp.Refresh.Token
}

func TestRegisterAndLogin(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := request(http.MethodPost, "/v1/auth/register",
		`{"username":"alice","student_id":"20231234","phone":"010-1111-2222"}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d (body %s)", rec.Code, rec.Body)
	}
	user, access, refresh := decodeAuth(t, rec.Body.Bytes())
	if user != "alice" || access == "" || refresh == "" {
		t.Fatalf("register response missing tokens: user=%q access=%q refresh=%q", user, access, refresh)
	}

	// Duplicate username.
	c, rec = request(http.MethodPost, "/v1/auth/register",
		`{"username":"alice","student_id":"20239999"}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}

	// Missing fields.
	c, rec = request(http.MethodPost, "/v1/auth/register", `{"username":"  "}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty register status = %d, want 400", rec.Code)
	}

	c, rec = request(http.MethodPost, "/v1/auth/login",
		`{"username":"alice","student_id":"20231234"}`, "")
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (body %s)", rec.Code, rec.Body)
	}

	for _, body := range []string{
		`{"username":"alice","student_id":"wrong"}`,
		`{"username":"nobody","student_id":"20231234"}`,
	} {
		c, rec = request(http.MethodPost, "/v1/auth/login", body, "")
		if err := h.Login(c); err != nil {
			t.Fatalf("login: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("login %s: status %d, want 401", body, rec.Code)
		}
	}
}

func TestRefreshRotation(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := request(http.MethodPost, "/v1/auth/register",
		`{"username":"bob","student_id":"20230001"}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, refresh := decodeAuth(t, rec.Body.Bytes())

	c, rec = request(http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"`+refresh+`"}`, "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d (body %s)", rec.Code, rec.Body)
	}
	user, _, next := decodeAuth(t, rec.Body.Bytes())
	if user != "bob" || next == "" || next == refresh {
		t.Fatalf("refresh did not rotate: user=%q next=%q", user, next)
	}

	// The consumed token is revoked.
	c, rec = request(http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"`+refresh+`"}`, "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh status = %d, want 401", rec.Code)
	}

	// Logout kills the live one too.
	c, rec = request(http.MethodPost, "/v1/auth/logout",
		`{"refresh_token":"`+next+`"}`, "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}
	c, rec = request(http.MethodPost, "/v1/auth/refresh",
		`{"refresh_token":"`+next+`"}`, "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout refresh status = %d, want 401", rec.Code)
	}
}

func TestMe(t *testing.T) {
	h := newAuthHandler(t)

	c, rec := request(http.MethodPost, "/v1/auth/register",
		`{"username":"carol","student_id":"20235555"}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	c, rec = request(http.MethodGet, "/v1/me", "", "carol")
	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	var u struct {
		Username  string `json:"username"`
		StudentID string `json:"student_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if u.Username != "carol" || u.StudentID != "20235555" {
		t.Fatalf("me = %+v", u)
	}

	c, rec = request(http.MethodGet, "/v1/me", "", "")
	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me status = %d, want 401", rec.Code)
	}
}
