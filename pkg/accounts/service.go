// Package accounts implements registration, login, profile management,
// and the password-reset flow.
//
// The reset flow is a small state machine per user: Idle -> Requested
// (token issued and persisted) -> Consumed (credential replaced, token
// cleared) with expiry or supersession dropping back to Idle. A reset
// token is accepted only when it passes signature and expiry
// verification, matches the token stored on the user, and the stored
// wall-clock expiry is still in the future. The three checks are
// independent defenses; any one failing rejects the token.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/mailer"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// Service provides the account operations.
type Service struct {
	users   store.UserStore
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenService
	mail    mailer.Mailer
	logger  *observability.Logger
	metrics *observability.Metrics

	// publicBaseURL is the externally visible origin used to build reset
	// links, e.g. "https://shelf.example.com".
	publicBaseURL string

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates the accounts service. metrics may be nil.
func NewService(users store.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenService, mail mailer.Mailer, publicBaseURL string, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		mail:          mail,
		logger:        logger,
		metrics:       metrics,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// LoginResult bundles the authenticated user summary with a session
// token.
type LoginResult struct {
	User  models.UserSummary
	Token string
}

// Register creates a new account with the default User role.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.UserSummary, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.countLogin("rejected")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.countLogin("rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing session token: %w", err)
	}

	s.countLogin("ok")
	return &LoginResult{User: user.Summary(), Token: token}, nil
}

// ForgotPassword starts the reset flow: issue a reset token, persist it
// with its wall-clock expiry, then email a link. The mail is dispatched
// only after the token is persisted, so a delivery failure never leaves
// a token the user cannot re-request.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.countReset("request", "not_found")
		return ErrEmailNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	token, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		return fmt.Errorf("issuing reset token: %w", err)
	}

	// Stored expiry is independent bookkeeping, redundant with the
	// token's own claim; both are checked at consumption.
	expires := s.now().Add(s.tokens.ResetTTL())
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return fmt.Errorf("persisting reset token: %w", err)
	}

	link := fmt.Sprintf("%s/api/users/reset-password/%s", s.publicBaseURL, token)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received a request to reset your password."+
			" Follow this link within the next hour to choose a new one:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		user.Name, link)

	if err := s.mail.Send(ctx, user.Email, "Reset your password", body); err != nil {
		s.countReset("request", "mail_error")
		return fmt.Errorf("sending reset mail: %w", err)
	}

	s.countReset("request", "ok")
	s.logger.WithField("user_id", user.ID).Info("password reset requested")
	return nil
}

// ResetPassword consumes a reset token and replaces the credential.
// The token fields are cleared in the same store write as the credential
// change, which is what makes the token single-use.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	info, err := s.tokens.Verify(token)
	if err != nil {
		s.countReset("consume", "invalid_token")
		return ErrResetTokenInvalid
	}

	// Constrained lookup: subject must still hold exactly this token and
	// the stored expiry must be in the future. Catches consumed,
	// superseded, and mismatched tokens.
	user, err := s.users.FindByValidResetToken(ctx, info.PrincipalID, token, s.now())
	if errors.Is(err, store.ErrNotFound) {
		s.countReset("consume", "stale_token")
		return ErrResetTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("looking up reset token: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.users.ReplaceCredential(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("replacing credential: %w", err)
	}

	s.countReset("consume", "ok")
	s.logger.WithField("user_id", user.ID).Info("password reset completed")
	return nil
}

// Get returns a user summary by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	summary := user.Summary()
	return &summary, nil
}

// List returns summaries of all users.
func (s *Service) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

// UpdateProfile changes a user's name and photo. Role changes go through
// UpdateRole, a privileged operation.
func (s *Service) UpdateProfile(ctx context.Context, id, name, photoURL string) (*models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if name != "" {
		user.Name = name
	}
	if photoURL != "" {
		user.PhotoURL = photoURL
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	summary := user.Summary()
	return &summary, nil
}

// UpdateRole changes a user's role. Callers gate this behind the Admin
// role check.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (*models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	summary := user.Summary()
	return &summary, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (s *Service) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.LoginAttemptsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Service) countReset(step, status string) {
	if s.metrics != nil {
		s.metrics.PasswordResetsTotal.WithLabelValues(step, status).Inc()
	}
}
