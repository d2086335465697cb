package api

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/openshelf/openshelf/pkg/accounts"
	"github.com/openshelf/openshelf/pkg/httputil"
)

// minPasswordLength is the floor for new passwords, applied at signup
// and reset.
const minPasswordLength = 8

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// signup handles POST /api/users/signup
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !validEmail(req.Email) {
		httputil.WriteValidationError(w, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		httputil.WriteValidationError(w, "password must be at least 8 characters")
		return
	}

	user, err := s.cfg.Accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, accounts.ErrEmailTaken) {
		httputil.WriteValidationError(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "signup failed")
		return
	}

	httputil.WriteCreated(w, user)
}

// login handles POST /api/users/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	res, err := s.cfg.Accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		httputil.WriteUnauthorized(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "login failed")
		return
	}

	httputil.WriteSuccess(w, LoginResponse{Success: true, Token: res.Token, User: res.User})
}

// forgotPassword handles POST /api/users/forgot-password
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		httputil.WriteValidationError(w, "a valid email is required")
		return
	}

	err := s.cfg.Accounts.ForgotPassword(r.Context(), req.Email)
	if errors.Is(err, accounts.ErrEmailNotFound) {
		httputil.WriteNotFound(w, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err, "forgot-password failed")
		return
	}

	httputil.WriteSuccessMessage(w, "password reset email sent")
}

// resetPassword handles PUT /api/users/reset-password/{token}
func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	token, ok := httputil.ParsePathStringOrError(w, r, "token")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if len(req.Password) < minPasswordLength {
		httputil.WriteValidationError(w, "password must be at least 8 characters")
		return
	}

	err := s.cfg.Accounts.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword)
	switch {
	case errors.Is(err, accounts.ErrPasswordMismatch):
		httputil.WriteValidationError(w, err.Error())
	case errors.Is(err, accounts.ErrResetTokenInvalid):
		// Expired, consumed, superseded, and malformed tokens all take
		// this branch; the response never distinguishes them.
		httputil.WriteValidationError(w, err.Error())
	case err != nil:
		s.internalError(w, err, "reset-password failed")
	default:
		httputil.WriteSuccessMessage(w, "password has been reset")
	}
}
