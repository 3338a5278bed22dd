package handlers

import (
	"net/http"

	"github.com/xelth-com/recoverydesk/internal/utils"
	"go.uber.org/zap"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest replaces the operator password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// login exchanges the shop password for an access token
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var body LoginRequest
	if !decodeJSON(w, req, &body) {
		return
	}

	ok, err := r.engine.VerifyPassword(req.Context(), body.Password)
	if err != nil {
		r.respondEngineError(w, err)
		return
	}
	if !ok {
		r.log.Warn("Login rejected", zap.String("remote", req.RemoteAddr))
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := utils.GenerateOperatorToken(r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresAt":   expiresAt.UTC(),
	})
}

func (r *Router) changePassword(w http.ResponseWriter, req *http.Request) {
	var body ChangePasswordRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	if err := r.engine.ChangePassword(req.Context(), body.CurrentPassword, body.NewPassword); err != nil {
		r.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
