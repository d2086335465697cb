// Package memory provides in-memory store implementations used by tests
// and by dev mode when no MongoDB is configured. All operations are
// guarded by a mutex; copies are handed out so callers cannot mutate
// stored state.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/openshelf/openshelf/pkg/store"
)

// NewStores returns a full in-memory store bundle.
func NewStores() *store.Stores {
	return &store.Stores{
		Users:   NewUserStore(),
		Roles:   NewRoleStore(),
		Posts:   NewPostStore(),
		Authors: NewAuthorStore(),
		Books:   NewBookStore(),
	}
}

// newID returns a fresh document ID.
func newID() string {
	return uuid.NewString()
}

type base struct {
	mu sync.RWMutex
}
