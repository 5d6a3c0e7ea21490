package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/glab/space-reservation/internal/middleware"
	"github.com/glab/space-reservation/internal/utils"
)

func runProtected(t *testing.T, secret, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	next := func(c echo.Context) error {
		seen = middleware.CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}
	if err := middleware.JWTAuth(secret)(next)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec, seen
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	access, err := utils.NewAccessToken("top-secret", "alice", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, seen := runProtected(t, "top-secret", "Bearer "+access.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	if seen != "alice" {
		t.Fatalf("subject = %q, want alice", seen)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	access, err := utils.NewAccessToken("top-secret", "alice", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, err := utils.NewAccessToken("top-secret", "alice", -5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + access.Token + "x"},
		{"expired", "Bearer " + expired.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, seen := runProtected(t, "other-secret", tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if seen != "" {
				t.Fatalf("handler ran with subject %q", seen)
			}
		})
	}
}
