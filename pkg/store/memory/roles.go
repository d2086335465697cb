package memory

import (
	"context"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/store"
)

// RoleStore is an in-memory store.RoleStore keyed by role name.
type RoleStore struct {
	base
	roles map[string]models.Role
}

// NewRoleStore creates an empty role store.
func NewRoleStore() *RoleStore {
	return &RoleStore{roles: make(map[string]models.Role)}
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *RoleStore) List(ctx context.Context) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

func (s *RoleStore) Upsert(ctx context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.roles[role.Name]; ok {
		role.ID = existing.ID
	} else if role.ID == "" {
		role.ID = newID()
	}
	s.roles[role.Name] = *role
	return nil
}
