package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(TokenConfig{
		Secret:     []byte("test-secret"),
		SessionTTL: time.Hour,
		ResetTTL:   time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		if _, err := NewTokenService(TokenConfig{}); err == nil {
			t.Fatal("expected error for empty secret")
		}
	})

	t.Run("defaults TTLs when unset", func(t *testing.T) {
		ts, err := NewTokenService(TokenConfig{Secret: []byte("s")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ts.cfg.SessionTTL != time.Hour || ts.cfg.ResetTTL != time.Hour {
			t.Errorf("expected hour defaults, got %v / %v", ts.cfg.SessionTTL, ts.cfg.ResetTTL)
		}
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts := newTestService(t)

	t.Run("round trips the principal ID", func(t *testing.T) {
		token, err := ts.IssueSession("user-123")
		if err != nil {
			t.Fatalf("IssueSession: %v", err)
		}

		info, err := ts.Verify(token)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if info.PrincipalID != "user-123" {
			t.Errorf("expected principal user-123, got %q", info.PrincipalID)
		}
		if !info.ExpiresAt.After(time.Now()) {
			t.Error("expected expiry in the future")
		}
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		token, err := ts.Issue("user-123", -time.Minute)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		_, err = ts.Verify(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects tokens signed with a different secret", func(t *testing.T) {
		other, err := NewTokenService(TokenConfig{Secret: []byte("other-secret")})
		if err != nil {
			t.Fatalf("NewTokenService: %v", err)
		}
		token, err := other.IssueSession("user-123")
		if err != nil {
			t.Fatalf("IssueSession: %v", err)
		}

		_, err = ts.Verify(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		for _, bad := range []string{"", "garbage", "a.b", "a.b.c"} {
			if _, err := ts.Verify(bad); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("token %q: expected ErrInvalidToken, got %v", bad, err)
			}
		}
	})
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher()

	t.Run("verifies the original password", func(t *testing.T) {
		hash, err := h.Hash("Sup3rSecret!")
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
		if hash == "Sup3rSecret!" {
			t.Fatal("hash must not equal the plaintext")
		}
		if !h.Verify("Sup3rSecret!", hash) {
			t.Error("expected original password to verify")
		}
		if h.Verify("WrongSecret!", hash) {
			t.Error("expected wrong password to fail")
		}
	})

	t.Run("salts independently per call", func(t *testing.T) {
		a, err := h.Hash("same-password")
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
		b, err := h.Hash("same-password")
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
		if a == b {
			t.Error("expected distinct hashes for repeated input")
		}
	})
}
