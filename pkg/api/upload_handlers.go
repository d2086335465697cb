package api

import (
	"errors"
	"net/http"

	"github.com/openshelf/openshelf/pkg/httputil"
	"github.com/openshelf/openshelf/pkg/uploads"
)

// upload handles POST /api/uploads. The image travels as the "image"
// part of a multipart form.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxUploadBytes); err != nil {
		httputil.WriteValidationError(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteValidationError(w, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	res, err := s.cfg.Uploads.Store(r.Context(), file, contentType, header.Size)
	switch {
	case errors.Is(err, uploads.ErrUnsupportedType):
		httputil.WriteValidationError(w, "only image uploads are accepted")
		s.countUpload("rejected")
	case errors.Is(err, uploads.ErrTooLarge):
		httputil.WriteValidationError(w, "image exceeds the size limit")
		s.countUpload("rejected")
	case err != nil:
		s.internalError(w, err, "storing upload failed")
		s.countUpload("error")
	default:
		httputil.WriteCreated(w, res)
		s.countUpload("ok")
	}
}

func (s *Server) countUpload(status string) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.UploadsTotal.WithLabelValues("object_store", status).Inc()
	}
}
