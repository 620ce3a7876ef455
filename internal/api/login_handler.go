package api

import (
	"errors"
	"net/http"

	"github.com/highsierra/storefront-gateway/internal/auth"
	"github.com/highsierra/storefront-gateway/internal/forms"
	"github.com/highsierra/storefront-gateway/internal/pkg/httputil"
	"github.com/highsierra/storefront-gateway/internal/pkg/logger"
)

// loginUser is the user sub-record of a successful login response
type loginUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// loginResponse is the success envelope of the admin login endpoint
type loginResponse struct {
	Success    bool      `json:"success"`
	RedirectTo string    `json:"redirectTo"`
	Token      string    `json:"token,omitempty"`
	User       loginUser `json:"user"`
}

// AdminLogin checks a credential pair against the configured admin and
// store-owner pairs and answers with the role's redirect target plus a
// signed session token.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req forms.LoginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	principal, err := h.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadRequest):
			httputil.BadRequest(w, "Email and password are required")
		case errors.Is(err, auth.ErrNotConfigured):
			logger.Error("admin login rejected: missing admin configuration")
			httputil.Error(w, http.StatusInternalServerError, "Server configuration error")
		default:
			logger.Warn("admin login failed", "email", req.Email)
			httputil.Error(w, http.StatusUnauthorized, "Invalid email or password")
		}
		return
	}

	token, err := h.auth.IssueToken(principal)
	if err != nil {
		logger.Error("session token issuance failed", "error", err.Error())
		httputil.Error(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	logger.Info("admin login", "email", principal.Email, "role", principal.Role)
	httputil.OK(w, loginResponse{
		Success:    true,
		RedirectTo: principal.RedirectTo,
		Token:      token,
		User:       loginUser{Email: principal.Email, Role: principal.Role},
	})
}
