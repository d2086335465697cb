// Package store defines the document store interfaces the service is
// built against, plus the sentinel errors all implementations share.
// The storage engine behind them is interchangeable: pkg/store/mongo is
// the production backend, pkg/store/memory backs tests and dev mode.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/openshelf/openshelf/pkg/models"
)

// ErrNotFound is returned when a document does not exist. Implementations
// must return it (possibly wrapped) rather than a driver-specific error.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that
// is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore persists user records including credential and reset-token
// state.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// Update writes the profile fields (name, email, role, photo) only.
	// Credential and reset-token state are untouched; they change solely
	// through ReplaceCredential and SetResetToken.
	Update(ctx context.Context, user *models.User) error

	Delete(ctx context.Context, id string) error

	// SetResetToken stores a freshly issued reset token and its wall-clock
	// expiry. A second call overwrites the previous pair (last write wins).
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error

	// FindByValidResetToken returns the user only when the stored reset
	// token equals token AND its stored expiry is after now. Consumed,
	// superseded, or mismatched tokens yield ErrNotFound.
	FindByValidResetToken(ctx context.Context, id, token string, now time.Time) (*models.User, error)

	// ReplaceCredential overwrites the credential hash and clears both
	// reset-token fields in the same write, making the token single-use.
	ReplaceCredential(ctx context.Context, id, passwordHash string) error

	// ClearExpiredResetTokens removes reset-token state whose expiry has
	// passed, returning how many documents were touched.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// RoleStore persists named roles with their permission sets. Read-only
// from the request path; Upsert exists for administrative seeding.
type RoleStore interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Upsert(ctx context.Context, role *models.Role) error
}

// PostStore persists blog posts.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// AuthorStore persists book authors.
type AuthorStore interface {
	Create(ctx context.Context, author *models.Author) error
	FindByID(ctx context.Context, id string) (*models.Author, error)
	List(ctx context.Context) ([]models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id string) error
}

// BookStore persists catalog books.
type BookStore interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id string) error
}

// Stores bundles every store the service consumes, so wiring passes one
// value around.
type Stores struct {
	Users   UserStore
	Roles   RoleStore
	Posts   PostStore
	Authors AuthorStore
	Books   BookStore
}
