package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/openshelf/openshelf/pkg/contextkeys"
	"github.com/openshelf/openshelf/pkg/httputil"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// roleCacheSize bounds the role-document cache. There are only a handful
// of roles, so this is generous.
const roleCacheSize = 64

// Authorizer builds the role and permission checks. It owns an expiring
// cache of role documents so the permission check does not hit the role
// store on every request.
type Authorizer struct {
	users  store.UserStore
	roles  store.RoleStore
	cache  *lru.LRU[string, *models.Role]
	logger *observability.Logger
}

// NewAuthorizer creates an Authorizer. cacheTTL of zero disables caching.
func NewAuthorizer(users store.UserStore, roles store.RoleStore, cacheTTL time.Duration, logger *observability.Logger) *Authorizer {
	a := &Authorizer{users: users, roles: roles, logger: logger}
	if cacheTTL > 0 {
		a.cache = lru.NewLRU[string, *models.Role](roleCacheSize, nil, cacheTTL)
	}
	return a
}

// principal resolves the full user record for the ID attached by the
// authentication middleware. The bool reports whether the middleware ran.
func (a *Authorizer) principal(ctx context.Context) (*models.User, bool, error) {
	id, ok := contextkeys.PrincipalID(ctx)
	if !ok {
		return nil, false, nil
	}
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, true, err
	}
	return user, true, nil
}

// RequireRole returns middleware that admits only principals whose stored
// role equals requiredRole. Comparison is exact and case-sensitive.
func (a *Authorizer) RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, authed, err := a.principal(r.Context())
			if !authed {
				httputil.WriteUnauthorized(w, "authentication required")
				return
			}
			if errors.Is(err, store.ErrNotFound) {
				// The token outlived its account.
				httputil.WriteUnauthorized(w, "invalid or expired token")
				return
			}
			if err != nil {
				// Lookup faults are server errors, never a silent deny or
				// allow.
				a.logger.WithError(err).Error("role check: principal lookup failed")
				httputil.WriteInternalError(w)
				return
			}

			if user.Role != requiredRole {
				httputil.WriteForbidden(w, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission returns middleware that admits only principals whose
// role document contains requiredPermission. A principal referencing a
// role that was never seeded is a data-integrity fault and surfaces as a
// server error, not an authorization failure.
func (a *Authorizer) RequirePermission(requiredPermission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, authed, err := a.principal(r.Context())
			if !authed {
				httputil.WriteUnauthorized(w, "authentication required")
				return
			}
			if errors.Is(err, store.ErrNotFound) {
				httputil.WriteUnauthorized(w, "invalid or expired token")
				return
			}
			if err != nil {
				a.logger.WithError(err).Error("permission check: principal lookup failed")
				httputil.WriteInternalError(w)
				return
			}

			role, err := a.resolveRole(r.Context(), user.Role)
			if errors.Is(err, store.ErrNotFound) {
				a.logger.WithField("role", user.Role).Error("permission check: role document missing")
				httputil.WriteInternalError(w)
				return
			}
			if err != nil {
				a.logger.WithError(err).Error("permission check: role lookup failed")
				httputil.WriteInternalError(w)
				return
			}

			if !role.HasPermission(requiredPermission) {
				httputil.WriteForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveRole fetches a role document, consulting the cache first.
func (a *Authorizer) resolveRole(ctx context.Context, name string) (*models.Role, error) {
	if a.cache != nil {
		if role, ok := a.cache.Get(name); ok {
			return role, nil
		}
	}
	role, err := a.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Add(name, role)
	}
	return role, nil
}
