package api

import (
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/pkg/accounts"
	"github.com/openshelf/openshelf/pkg/contextkeys"
	"github.com/openshelf/openshelf/pkg/httputil"
	"github.com/openshelf/openshelf/pkg/models"
)

// listUsers handles GET /api/users (Admin only)
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.cfg.Accounts.List(r.Context())
	if err != nil {
		s.internalError(w, err, "listing users failed")
		return
	}
	httputil.WriteSuccess(w, users)
}

// getUser handles GET /api/users/{id}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	user, err := s.cfg.Accounts.Get(r.Context(), id)
	if errors.Is(err, accounts.ErrUserNotFound) {
		httputil.WriteNotFound(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "getting user failed")
		return
	}
	httputil.WriteSuccess(w, user)
}

// updateUser handles PUT /api/users/{id}. A user may edit their own
// profile; only an Admin may edit others or change roles.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	principalID, _ := contextkeys.PrincipalID(r.Context())
	isSelf := principalID == id
	isAdmin, err := s.principalIsAdmin(r)
	if err != nil {
		s.internalError(w, err, "principal lookup failed")
		return
	}

	if !isSelf && !isAdmin {
		httputil.WriteForbidden(w, "insufficient role")
		return
	}
	if req.Role != "" && !isAdmin {
		httputil.WriteForbidden(w, "only admins may change roles")
		return
	}

	user, err := s.cfg.Accounts.UpdateProfile(r.Context(), id, req.Name, req.PhotoURL)
	if errors.Is(err, accounts.ErrUserNotFound) {
		httputil.WriteNotFound(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "updating user failed")
		return
	}

	if req.Role != "" {
		user, err = s.cfg.Accounts.UpdateRole(r.Context(), id, req.Role)
		if err != nil {
			s.internalError(w, err, "updating role failed")
			return
		}
	}

	httputil.WriteSuccess(w, user)
}

// deleteUser handles DELETE /api/users/{id} (Admin + DELETE permission)
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	err := s.cfg.Accounts.Delete(r.Context(), id)
	if errors.Is(err, accounts.ErrUserNotFound) {
		httputil.WriteNotFound(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "deleting user failed")
		return
	}
	httputil.WriteSuccessMessage(w, "user deleted")
}

// principalIsAdmin reports whether the authenticated principal holds the
// Admin role.
func (s *Server) principalIsAdmin(r *http.Request) (bool, error) {
	principalID, ok := contextkeys.PrincipalID(r.Context())
	if !ok {
		return false, nil
	}
	principal, err := s.cfg.Accounts.Get(r.Context(), principalID)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return principal.Role == models.RoleAdmin, nil
}
