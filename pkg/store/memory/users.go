package memory

import (
	"context"
	"time"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/store"
)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	base
	users map[string]models.User
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = newID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	// Profile fields only; credential and reset state are written solely
	// through ReplaceCredential and SetResetToken.
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Role = user.Role
	stored.PhotoURL = user.PhotoURL
	stored.UpdatedAt = time.Now()
	s.users[user.ID] = stored
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpires = &expires
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return nil
}

func (s *UserStore) FindByValidResetToken(ctx context.Context, id, token string, now time.Time) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.ResetToken == "" || u.ResetToken != token {
		return nil, store.ErrNotFound
	}
	if u.ResetTokenExpires == nil || !u.ResetTokenExpires.After(now) {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) ReplaceCredential(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpires = nil
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return nil
}

func (s *UserStore) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, u := range s.users {
		if u.ResetToken != "" && u.ResetTokenExpires != nil && !u.ResetTokenExpires.After(now) {
			u.ResetToken = ""
			u.ResetTokenExpires = nil
			s.users[id] = u
			n++
		}
	}
	return n, nil
}
