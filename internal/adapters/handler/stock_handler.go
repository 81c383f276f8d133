package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/adapters/middleware"
	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// StockHandler serves the bank dashboard. Routes are mounted behind
// RequireRole(BANK), so the session always carries a bank id.
type StockHandler struct {
	stockService ports.StockService
	logger       *zap.Logger
}

func NewStockHandler(stocks ports.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{stockService: stocks, logger: logger}
}

type DashboardResponse struct {
	BloodBank *domain.BloodBank   `json:"blood_bank"`
	Stocks    []domain.BloodStock `json:"stocks"`
}

type StockUpdateRequest struct {
	Stocks []domain.StockUpdate `json:"stocks"`
}

func (h *StockHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	bankID, ok := h.bankID(w, r)
	if !ok {
		return
	}

	bank, stocks, err := h.stockService.Dashboard(r.Context(), bankID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{BloodBank: bank, Stocks: stocks})
}

func (h *StockHandler) UpdateStocks(w http.ResponseWriter, r *http.Request) {
	bankID, ok := h.bankID(w, r)
	if !ok {
		return
	}

	var req StockUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.stockService.UpdateStocks(r.Context(), bankID, req.Stocks)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StockHandler) bankID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.BankID == "" {
		writeError(w, h.logger, domain.ErrForbidden)
		return "", false
	}
	return session.BankID, true
}
