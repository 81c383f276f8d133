package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// DirectoryHandler serves the public read endpoints.
type DirectoryHandler struct {
	directory ports.DirectoryService
	logger    *zap.Logger
}

func NewDirectoryHandler(directory ports.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, logger: logger}
}

// MapMarker is one bank as plotted on the map.
type MapMarker struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func cityParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("city"))
}

func (h *DirectoryHandler) Home(w http.ResponseWriter, r *http.Request) {
	summary, err := h.directory.Summary(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *DirectoryHandler) SearchBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.directory.SearchBanks(r.Context(), cityParam(r), bloodGroupParam(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if banks == nil {
		banks = []domain.BloodBank{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"blood_banks": banks})
}

func (h *DirectoryHandler) MapBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.directory.MapBanks(r.Context(), cityParam(r), bloodGroupParam(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	markers := make([]MapMarker, 0, len(banks))
	for _, b := range banks {
		if !b.HasLocation() {
			continue
		}
		markers = append(markers, MapMarker{
			ID:        b.ID,
			Name:      b.Name,
			City:      b.City,
			Address:   b.Address,
			Phone:     b.Phone,
			Latitude:  *b.Latitude,
			Longitude: *b.Longitude,
		})
	}
	writeJSON(w, http.StatusOK, markers)
}

func (h *DirectoryHandler) BankDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.directory.BankDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *DirectoryHandler) SearchDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.directory.SearchDonors(r.Context(), cityParam(r), bloodGroupParam(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if donors == nil {
		donors = []domain.Donor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"donors": donors})
}

func (h *DirectoryHandler) ActiveSOSRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.directory.ActiveSOSRequests(r.Context(), cityParam(r), bloodGroupParam(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if reqs == nil {
		reqs = []domain.SOSRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sos_requests": reqs})
}
