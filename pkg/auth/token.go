package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single client-visible verification failure.
// Signature, expiry, and malformed-token errors all collapse into it.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenConfig holds the signing secret and the two TTL profiles.
// It is passed in at construction; the service never reads process-wide
// state at call time.
type TokenConfig struct {
	Secret     []byte
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

// Claims are the payload carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService creates a token service from explicit configuration.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: signing secret must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &TokenService{cfg: cfg}, nil
}

// Issue produces a signed token whose subject is the given principal ID
// and whose expiry is ttl in the future. The jti claim makes every
// issued token distinct even within the same second, which the reset
// flow relies on to tell a superseded token from its replacement.
func (ts *TokenService) Issue(principalID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(ts.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// IssueSession issues a short-lived session bearer token.
func (ts *TokenService) IssueSession(principalID string) (string, error) {
	return ts.Issue(principalID, ts.cfg.SessionTTL)
}

// IssueReset issues a password-reset token.
func (ts *TokenService) IssueReset(principalID string) (string, error) {
	return ts.Issue(principalID, ts.cfg.ResetTTL)
}

// ResetTTL returns the configured reset-token lifetime. The reset flow
// persists its own wall-clock expiry alongside the token.
func (ts *TokenService) ResetTTL() time.Duration {
	return ts.cfg.ResetTTL
}

// TokenInfo is the decoded payload of a verified token.
type TokenInfo struct {
	PrincipalID string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Verify checks signature and expiry and returns the decoded payload.
// Any failure returns ErrInvalidToken wrapping the underlying cause; the
// cause is for logs, never for clients.
func (ts *TokenService) Verify(tokenString string) (*TokenInfo, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return ts.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	info := &TokenInfo{PrincipalID: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
