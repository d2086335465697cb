package api

import (
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/pkg/catalog"
	"github.com/openshelf/openshelf/pkg/httputil"
)

// listAuthors handles GET /api/authors
func (s *Server) listAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.cfg.Catalog.ListAuthors(r.Context())
	if err != nil {
		s.internalError(w, err, "listing authors failed")
		return
	}
	httputil.WriteSuccess(w, authors)
}

// getAuthor handles GET /api/authors/{id}
func (s *Server) getAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	author, err := s.cfg.Catalog.GetAuthor(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "author not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "getting author failed")
		return
	}
	httputil.WriteSuccess(w, author)
}

// createAuthor handles POST /api/authors
func (s *Server) createAuthor(w http.ResponseWriter, r *http.Request) {
	var req AuthorRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	author, err := s.cfg.Catalog.CreateAuthor(r.Context(), req.Name, req.Bio, req.PhotoURL)
	if err != nil {
		s.internalError(w, err, "creating author failed")
		return
	}
	httputil.WriteCreated(w, author)
}

// updateAuthor handles PUT /api/authors/{id}
func (s *Server) updateAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req AuthorRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	author, err := s.cfg.Catalog.UpdateAuthor(r.Context(), id, req.Name, req.Bio, req.PhotoURL)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "author not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "updating author failed")
		return
	}
	httputil.WriteSuccess(w, author)
}

// deleteAuthor handles DELETE /api/authors/{id}
func (s *Server) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	err := s.cfg.Catalog.DeleteAuthor(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "author not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "deleting author failed")
		return
	}
	httputil.WriteSuccessMessage(w, "author deleted")
}
