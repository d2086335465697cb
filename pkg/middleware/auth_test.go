package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/contextkeys"
	"github.com/openshelf/openshelf/pkg/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     []byte("middleware-test-secret"),
		SessionTTL: time.Hour,
		ResetTTL:   time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestAuthMiddleware_Handler(t *testing.T) {
	ts := testTokenService(t)
	m := NewAuthMiddleware(ts, testLogger(), nil)

	t.Run("rejects request without Authorization header", func(t *testing.T) {
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"success":false`) {
			t.Errorf("expected failure envelope, got %s", w.Body.String())
		}
	})

	t.Run("rejects malformed Authorization headers", func(t *testing.T) {
		for _, header := range []string{
			"Basic abc123",
			"Bearer",
			"bearer token",
			"Token xyz",
		} {
			handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler should not be called for header %q", header)
			}))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("header %q: expected 401, got %d", header, w.Code)
			}
		}
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := ts.Issue("user-1", -time.Minute)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("attaches principal ID on valid token", func(t *testing.T) {
		token, err := ts.IssueSession("user-42")
		if err != nil {
			t.Fatalf("IssueSession: %v", err)
		}

		var gotID string
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, _ = contextkeys.PrincipalID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotID != "user-42" {
			t.Errorf("expected principal user-42, got %q", gotID)
		}
	})
}
