package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)

	t.Run("admin sees all users", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users", env.adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var users []map[string]interface{}
		decode(t, w, &users)
		assert.Len(t, users, 2)
	})

	t.Run("plain user gets 403", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users", env.userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "insufficient role", errorBody(t, w)["message"])
	})

	t.Run("no token gets 401", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token gets 401", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid or expired token", errorBody(t, w)["message"])
	})
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)

	t.Run("authenticated fetch", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users/"+env.user.ID, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var user map[string]interface{}
		decode(t, w, &user)
		assert.Equal(t, env.user.Email, user["email"])
	})

	t.Run("unknown id gets 404", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users/no-such-id", env.userToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)

	t.Run("user edits own profile", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/users/"+env.user.ID, env.userToken, UpdateUserRequest{
			Name: "Renamed",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var user map[string]interface{}
		decode(t, w, &user)
		assert.Equal(t, "Renamed", user["name"])
	})

	t.Run("user cannot edit another profile", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/users/"+env.admin.ID, env.userToken, UpdateUserRequest{
			Name: "Hijacked",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("user cannot self-promote", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/users/"+env.user.ID, env.userToken, UpdateUserRequest{
			Role: "Admin",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin changes a role", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/users/"+env.user.ID, env.adminToken, UpdateUserRequest{
			Role: "Admin",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var user map[string]interface{}
		decode(t, w, &user)
		assert.Equal(t, "Admin", user["role"])
	})
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)

	t.Run("plain user is rejected by the role check", func(t *testing.T) {
		w := env.do(t, "DELETE", "/api/users/"+env.user.ID, env.userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin deletes through role and permission checks", func(t *testing.T) {
		w := env.do(t, "DELETE", "/api/users/"+env.user.ID, env.adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/users/"+env.user.ID, env.adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deleted user's live token gets 401", func(t *testing.T) {
		w := env.do(t, "GET", "/api/users", env.userToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid or expired token", errorBody(t, w)["message"])
	})
}
