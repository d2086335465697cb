package api

import (
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/pkg/catalog"
	"github.com/openshelf/openshelf/pkg/contextkeys"
	"github.com/openshelf/openshelf/pkg/httputil"
)

// listPosts handles GET /api/posts
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.cfg.Catalog.ListPosts(r.Context())
	if err != nil {
		s.internalError(w, err, "listing posts failed")
		return
	}
	httputil.WriteSuccess(w, posts)
}

// getPost handles GET /api/posts/{id}
func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	post, err := s.cfg.Catalog.GetPost(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "post not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "getting post failed")
		return
	}
	httputil.WriteSuccess(w, post)
}

// createPost handles POST /api/posts
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Title, "title") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Body, "body") {
		return
	}

	principalID, _ := contextkeys.PrincipalID(r.Context())
	post, err := s.cfg.Catalog.CreatePost(r.Context(), principalID, req.Title, req.Body, req.ImageURL)
	if err != nil {
		s.internalError(w, err, "creating post failed")
		return
	}
	httputil.WriteCreated(w, post)
}

// updatePost handles PUT /api/posts/{id}
func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req PostRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	post, err := s.cfg.Catalog.UpdatePost(r.Context(), id, req.Title, req.Body, req.ImageURL)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "post not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "updating post failed")
		return
	}
	httputil.WriteSuccess(w, post)
}

// deletePost handles DELETE /api/posts/{id}
func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	err := s.cfg.Catalog.DeletePost(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "post not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "deleting post failed")
		return
	}
	httputil.WriteSuccessMessage(w, "post deleted")
}
