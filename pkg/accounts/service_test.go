package accounts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
	"github.com/openshelf/openshelf/pkg/store/memory"
)

// recordingMailer captures sent messages instead of delivering them.
type recordingMailer struct {
	sent []sentMail
	fail error
}

type sentMail struct {
	to, subject, body string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func newTestService(t *testing.T) (*Service, *memory.UserStore, *recordingMailer) {
	t.Helper()
	users := memory.NewUserStore()
	mail := &recordingMailer{}
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("test-secret")})
	require.NoError(t, err)

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	svc := NewService(users, auth.NewPasswordHasher(), tokens, mail, "https://shelf.test", logger, nil)
	return svc, users, mail
}

// tokenFromMail pulls the reset token out of the emailed link.
func tokenFromMail(t *testing.T, m sentMail) string {
	t.Helper()
	idx := strings.Index(m.body, "/api/users/reset-password/")
	require.NotEqual(t, -1, idx, "mail body should contain a reset link")
	rest := m.body[idx+len("/api/users/reset-password/"):]
	return strings.Fields(rest)[0]
}

func TestService_Register(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	summary, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Ada", summary.Name)
	assert.Equal(t, "User", summary.Role)
	assert.NotEmpty(t, summary.ID)

	stored, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash, "password must be stored hashed")

	_, err = svc.Register(ctx, "Ada Again", "ada@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("valid credentials yield a session token", func(t *testing.T) {
		res, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "ada@example.com", res.User.Email)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	svc, users, mail := newTestService(t)
	ctx := context.Background()

	summary, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("unknown email is reported", func(t *testing.T) {
		err := svc.ForgotPassword(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrEmailNotFound)
		assert.Empty(t, mail.sent)
	})

	t.Run("persists the token and mails a link", func(t *testing.T) {
		require.NoError(t, svc.ForgotPassword(ctx, "ada@example.com"))
		require.Len(t, mail.sent, 1)
		assert.Equal(t, "ada@example.com", mail.sent[0].to)

		token := tokenFromMail(t, mail.sent[0])
		stored, err := users.FindByID(ctx, summary.ID)
		require.NoError(t, err)
		assert.Equal(t, token, stored.ResetToken, "mailed token must match the stored one")
		require.NotNil(t, stored.ResetTokenExpires)
		assert.True(t, stored.ResetTokenExpires.After(time.Now()))
	})

	t.Run("token survives a mail delivery failure", func(t *testing.T) {
		mail.fail = errors.New("relay down")
		defer func() { mail.fail = nil }()

		before, err := users.FindByID(ctx, summary.ID)
		require.NoError(t, err)

		err = svc.ForgotPassword(ctx, "ada@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailNotFound)

		after, err := users.FindByID(ctx, summary.ID)
		require.NoError(t, err)
		assert.NotEqual(t, before.ResetToken, after.ResetToken,
			"token is persisted before mail dispatch")
	})
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	requestReset := func(t *testing.T, svc *Service, mail *recordingMailer, email string) string {
		t.Helper()
		require.NoError(t, svc.ForgotPassword(ctx, email))
		return tokenFromMail(t, mail.sent[len(mail.sent)-1])
	}

	t.Run("happy path replaces the credential", func(t *testing.T) {
		svc, _, mail := newTestService(t)
		_, err := svc.Register(ctx, "Ada", "ada@example.com", "oldpass")
		require.NoError(t, err)
		token := requestReset(t, svc, mail, "ada@example.com")

		require.NoError(t, svc.ResetPassword(ctx, token, "newpass", "newpass"))

		_, err = svc.Login(ctx, "ada@example.com", "oldpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "old password must stop working")
		_, err = svc.Login(ctx, "ada@example.com", "newpass")
		assert.NoError(t, err, "new password must work")
	})

	t.Run("token is single-use", func(t *testing.T) {
		svc, _, mail := newTestService(t)
		_, err := svc.Register(ctx, "Ada", "ada@example.com", "oldpass")
		require.NoError(t, err)
		token := requestReset(t, svc, mail, "ada@example.com")

		require.NoError(t, svc.ResetPassword(ctx, token, "first", "first"))
		err = svc.ResetPassword(ctx, token, "second", "second")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)

		_, err = svc.Login(ctx, "ada@example.com", "first")
		assert.NoError(t, err, "replay must not change the credential")
	})

	t.Run("a newer request supersedes the older token", func(t *testing.T) {
		svc, _, mail := newTestService(t)
		_, err := svc.Register(ctx, "Ada", "ada@example.com", "oldpass")
		require.NoError(t, err)

		t1 := requestReset(t, svc, mail, "ada@example.com")
		t2 := requestReset(t, svc, mail, "ada@example.com")
		require.NotEqual(t, t1, t2)

		err = svc.ResetPassword(ctx, t1, "viaT1", "viaT1")
		assert.ErrorIs(t, err, ErrResetTokenInvalid, "superseded token must be rejected")
		assert.NoError(t, svc.ResetPassword(ctx, t2, "viaT2", "viaT2"))
	})

	t.Run("expired stored token is rejected", func(t *testing.T) {
		svc, _, mail := newTestService(t)
		_, err := svc.Register(ctx, "Ada", "ada@example.com", "oldpass")
		require.NoError(t, err)
		token := requestReset(t, svc, mail, "ada@example.com")

		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		err = svc.ResetPassword(ctx, token, "newpass", "newpass")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("garbage token is rejected with the same error", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		err := svc.ResetPassword(ctx, "not-a-token", "newpass", "newpass")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("password mismatch fails before any store contact", func(t *testing.T) {
		svc, users, mail := newTestService(t)
		_, err := svc.Register(ctx, "Ada", "ada@example.com", "oldpass")
		require.NoError(t, err)
		token := requestReset(t, svc, mail, "ada@example.com")

		counting := &countingResetLookups{UserStore: users}
		svc.users = counting

		err = svc.ResetPassword(ctx, token, "one", "two")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		assert.Zero(t, counting.lookups, "validation runs before the store is touched")
	})

	t.Run("store fault is not collapsed into the token error", func(t *testing.T) {
		svc, users, mail := newTestService(t)
		_, err := svc.Register(ctx, "Ada", "ada@example.com", "oldpass")
		require.NoError(t, err)
		token := requestReset(t, svc, mail, "ada@example.com")

		svc.users = &faultyResetLookups{UserStore: users}
		err = svc.ResetPassword(ctx, token, "newpass", "newpass")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrResetTokenInvalid)
	})
}

// countingResetLookups counts FindByValidResetToken calls.
type countingResetLookups struct {
	*memory.UserStore
	lookups int
}

func (c *countingResetLookups) FindByValidResetToken(ctx context.Context, id, token string, now time.Time) (*models.User, error) {
	c.lookups++
	return c.UserStore.FindByValidResetToken(ctx, id, token, now)
}

// faultyResetLookups simulates an unavailable store.
type faultyResetLookups struct {
	*memory.UserStore
}

func (f *faultyResetLookups) FindByValidResetToken(ctx context.Context, id, token string, now time.Time) (*models.User, error) {
	return nil, errors.New("connection refused")
}

var _ store.UserStore = (*countingResetLookups)(nil)
var _ store.UserStore = (*faultyResetLookups)(nil)
