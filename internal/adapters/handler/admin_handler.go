package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(admin ports.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: admin, logger: logger}
}

// VerifyRequest toggles verification. An empty body verifies.
type VerifyRequest struct {
	Verified *bool `json:"verified"`
}

func (h *AdminHandler) PendingBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.adminService.ListPendingBanks(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if banks == nil {
		banks = []domain.BloodBank{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"blood_banks": banks})
}

func (h *AdminHandler) VerifyBank(w http.ResponseWriter, r *http.Request) {
	verified := true
	if r.ContentLength != 0 {
		var req VerifyRequest
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
				return
			}
			if req.Verified != nil {
				verified = *req.Verified
			}
		}
	}

	bank, err := h.adminService.SetBankVerified(r.Context(), chi.URLParam(r, "id"), verified)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blood_bank": bank})
}
