// Package api wires the HTTP surface: routing, request decoding, and the
// mapping from service errors onto the response taxonomy. Handlers stay
// thin; all domain behavior lives in the service packages.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openshelf/openshelf/pkg/accounts"
	"github.com/openshelf/openshelf/pkg/catalog"
	"github.com/openshelf/openshelf/pkg/httputil"
	"github.com/openshelf/openshelf/pkg/middleware"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/uploads"
)

// maxBodyBytes caps request bodies. Sized to admit the largest allowed
// image upload plus multipart overhead.
const maxBodyBytes = uploads.MaxUploadBytes + (1 << 20)

// Config bundles the dependencies the server routes over.
type Config struct {
	Accounts *accounts.Service
	Catalog  *catalog.Service
	Uploads  *uploads.Service

	Auth       *middleware.AuthMiddleware
	Authorizer *middleware.Authorizer

	// LoginLimiter rate limits the credential endpoints (login and
	// forgot-password). nil disables limiting.
	LoginLimiter func(http.Handler) http.Handler

	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// Server is the public API server.
type Server struct {
	router *mux.Router
	cfg    Config
	logger *observability.Logger
}

// NewServer creates the server and registers all routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		router: mux.NewRouter(),
		cfg:    cfg,
		logger: cfg.Logger,
	}
	// Registered on the router so the mux route template is resolvable
	// for the path label.
	if cfg.Metrics != nil {
		s.router.Use(cfg.Metrics.MetricsMiddleware(routeTemplate))
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	authed := s.cfg.Auth.Handler
	requireAdmin := s.cfg.Authorizer.RequireRole(models.RoleAdmin)
	requireUserRole := s.cfg.Authorizer.RequireRole(models.RoleUser)
	requireDelete := s.cfg.Authorizer.RequirePermission(models.PermissionDelete)

	limited := func(h http.Handler) http.Handler { return h }
	if s.cfg.LoginLimiter != nil {
		limited = s.cfg.LoginLimiter
	}

	// Account routes
	s.router.Handle("/api/users/signup", http.HandlerFunc(s.signup)).Methods("POST")
	s.router.Handle("/api/users/login", limited(http.HandlerFunc(s.login))).Methods("POST")
	s.router.Handle("/api/users/forgot-password", limited(http.HandlerFunc(s.forgotPassword))).Methods("POST")
	s.router.Handle("/api/users/reset-password/{token}", http.HandlerFunc(s.resetPassword)).Methods("PUT")

	// User management routes
	s.router.Handle("/api/users", authed(requireAdmin(http.HandlerFunc(s.listUsers)))).Methods("GET")
	s.router.Handle("/api/users/{id}", authed(http.HandlerFunc(s.getUser))).Methods("GET")
	s.router.Handle("/api/users/{id}", authed(http.HandlerFunc(s.updateUser))).Methods("PUT")
	s.router.Handle("/api/users/{id}",
		authed(requireAdmin(requireDelete(http.HandlerFunc(s.deleteUser))))).Methods("DELETE")

	// Post routes: reads public, writes authenticated, deletes gated by
	// both the role and the permission check.
	s.router.Handle("/api/posts", http.HandlerFunc(s.listPosts)).Methods("GET")
	s.router.Handle("/api/posts/{id}", http.HandlerFunc(s.getPost)).Methods("GET")
	s.router.Handle("/api/posts", authed(http.HandlerFunc(s.createPost))).Methods("POST")
	s.router.Handle("/api/posts/{id}", authed(http.HandlerFunc(s.updatePost))).Methods("PUT")
	s.router.Handle("/api/posts/{id}",
		authed(requireUserRole(requireDelete(http.HandlerFunc(s.deletePost))))).Methods("DELETE")

	// Author routes
	s.router.Handle("/api/authors", http.HandlerFunc(s.listAuthors)).Methods("GET")
	s.router.Handle("/api/authors/{id}", http.HandlerFunc(s.getAuthor)).Methods("GET")
	s.router.Handle("/api/authors", authed(http.HandlerFunc(s.createAuthor))).Methods("POST")
	s.router.Handle("/api/authors/{id}", authed(http.HandlerFunc(s.updateAuthor))).Methods("PUT")
	s.router.Handle("/api/authors/{id}",
		authed(requireUserRole(requireDelete(http.HandlerFunc(s.deleteAuthor))))).Methods("DELETE")

	// Book routes
	s.router.Handle("/api/books", http.HandlerFunc(s.listBooks)).Methods("GET")
	s.router.Handle("/api/books/{id}", http.HandlerFunc(s.getBook)).Methods("GET")
	s.router.Handle("/api/books", authed(http.HandlerFunc(s.createBook))).Methods("POST")
	s.router.Handle("/api/books/{id}", authed(http.HandlerFunc(s.updateBook))).Methods("PUT")
	s.router.Handle("/api/books/{id}",
		authed(requireUserRole(requireDelete(http.HandlerFunc(s.deleteBook))))).Methods("DELETE")

	// Upload route
	s.router.Handle("/api/uploads", authed(http.HandlerFunc(s.upload))).Methods("POST")
}

// Handler returns the server wrapped in the ambient middleware stack.
func (s *Server) Handler() http.Handler {
	return httputil.Chain(
		httputil.RecoveryMiddleware(s.logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.MaxBytesMiddleware(maxBodyBytes),
	)(s.router)
}

// ServeHTTP implements http.Handler without the ambient stack; tests use
// it to hit routes directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routeTemplate reports the mux route template for metric labels.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return ""
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return ""
	}
	return tmpl
}

// internalError logs the fault and writes the generic 500 envelope.
func (s *Server) internalError(w http.ResponseWriter, err error, what string) {
	s.logger.WithError(err).Error(what)
	httputil.WriteInternalError(w)
}
