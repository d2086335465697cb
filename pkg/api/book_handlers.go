package api

import (
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/pkg/catalog"
	"github.com/openshelf/openshelf/pkg/httputil"
)

// listBooks handles GET /api/books
func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.cfg.Catalog.ListBooks(r.Context())
	if err != nil {
		s.internalError(w, err, "listing books failed")
		return
	}
	httputil.WriteSuccess(w, books)
}

// getBook handles GET /api/books/{id}
func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	book, err := s.cfg.Catalog.GetBook(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "book not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "getting book failed")
		return
	}
	httputil.WriteSuccess(w, book)
}

// createBook handles POST /api/books
func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Title, "title") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.AuthorID, "authorId") {
		return
	}

	book, err := s.cfg.Catalog.CreateBook(r.Context(), req.Title, req.AuthorID, req.Summary, req.CoverURL, req.PublishedYear)
	if errors.Is(err, catalog.ErrAuthorMissing) {
		httputil.WriteValidationError(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "creating book failed")
		return
	}
	httputil.WriteCreated(w, book)
}

// updateBook handles PUT /api/books/{id}
func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req BookRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	book, err := s.cfg.Catalog.UpdateBook(r.Context(), id, req.Title, req.AuthorID, req.Summary, req.CoverURL, req.PublishedYear)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "book not found")
		return
	}
	if errors.Is(err, catalog.ErrAuthorMissing) {
		httputil.WriteValidationError(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "updating book failed")
		return
	}
	httputil.WriteSuccess(w, book)
}

// deleteBook handles DELETE /api/books/{id}
func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	err := s.cfg.Catalog.DeleteBook(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteNotFound(w, "book not found")
		return
	}
	if err != nil {
		s.internalError(w, err, "deleting book failed")
		return
	}
	httputil.WriteSuccessMessage(w, "book deleted")
}
