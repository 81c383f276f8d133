package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/adapters/middleware"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(auth ports.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, logger: logger}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	*ports.LoginResult
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:     "Welcome back, " + result.Account.Username + "!",
		LoginResult: result,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "not logged in"})
		return
	}

	if err := h.authService.Logout(r.Context(), session.TokenID, session.ExpiresAt); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "You have been logged out successfully."})
}
