package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/pkg/accounts"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/catalog"
	"github.com/openshelf/openshelf/pkg/middleware"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
	"github.com/openshelf/openshelf/pkg/store/memory"
	"github.com/openshelf/openshelf/pkg/uploads"
)

// testEnv bundles a fully wired server over in-memory stores.
type testEnv struct {
	server *Server
	stores *store.Stores
	mail   *recordingMailer

	adminToken string
	userToken  string
	admin      models.UserSummary
	user       models.UserSummary
}

type recordingMailer struct {
	sent []string // message bodies
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, body)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	stores := memory.NewStores()

	for _, role := range []models.Role{
		{Name: models.RoleAdmin, Permissions: []string{
			models.PermissionRead, models.PermissionCreate, models.PermissionUpdate, models.PermissionDelete,
		}},
		{Name: models.RoleUser, Permissions: []string{
			models.PermissionRead, models.PermissionCreate, models.PermissionUpdate, models.PermissionDelete,
		}},
	} {
		role := role
		require.NoError(t, stores.Roles.Upsert(ctx, &role))
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("test-secret")})
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher()
	mail := &recordingMailer{}

	accountsSvc := accounts.NewService(stores.Users, hasher, tokens, mail, "https://shelf.test", logger, nil)
	catalogSvc := catalog.NewService(stores.Posts, stores.Authors, stores.Books)

	fs, err := uploads.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	uploadsSvc := uploads.NewService(fs, "https://cdn.shelf.test")

	env := &testEnv{
		stores: stores,
		mail:   mail,
	}

	env.server = NewServer(Config{
		Accounts:   accountsSvc,
		Catalog:    catalogSvc,
		Uploads:    uploadsSvc,
		Auth:       middleware.NewAuthMiddleware(tokens, logger, nil),
		Authorizer: middleware.NewAuthorizer(stores.Users, stores.Roles, time.Minute, logger),
		Logger:     logger,
	})

	admin, err := accountsSvc.Register(ctx, "Admin", "admin@example.com", "adminpass1")
	require.NoError(t, err)
	admin, err = accountsSvc.UpdateRole(ctx, admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	user, err := accountsSvc.Register(ctx, "User", "user@example.com", "userpass11")
	require.NoError(t, err)

	env.admin = *admin
	env.user = *user
	env.adminToken, err = tokens.IssueSession(admin.ID)
	require.NoError(t, err)
	env.userToken, err = tokens.IssueSession(user.ID)
	require.NoError(t, err)

	return env
}

// do sends a JSON request, optionally authenticated.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body.
func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// errorBody reads the failure envelope.
func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	decode(t, w, &body)
	return body
}

var _ http.Handler = (*Server)(nil)
