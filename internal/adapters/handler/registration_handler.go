package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
	logger              *zap.Logger
}

func NewRegistrationHandler(registration ports.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registration, logger: logger}
}

type BankRegistrationResponse struct {
	Message   string            `json:"message"`
	BloodBank *domain.BloodBank `json:"blood_bank"`
}

type DonorResponse struct {
	Message string        `json:"message"`
	Donor   *domain.Donor `json:"donor"`
}

type SOSResponse struct {
	Message    string             `json:"message"`
	SOSRequest *domain.SOSRequest `json:"sos_request"`
}

func (h *RegistrationHandler) RegisterBloodBank(w http.ResponseWriter, r *http.Request) {
	var form domain.BloodBankRegistration
	if !decodeJSON(w, r, &form) {
		return
	}

	bank, err := h.registrationService.RegisterBloodBank(r.Context(), form)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, BankRegistrationResponse{
		Message:   "Registration successful! Your account is pending verification by an administrator.",
		BloodBank: bank,
	})
}

func (h *RegistrationHandler) RegisterDonor(w http.ResponseWriter, r *http.Request) {
	var form domain.DonorRegistration
	if !decodeJSON(w, r, &form) {
		return
	}

	donor, err := h.registrationService.RegisterDonor(r.Context(), form)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, DonorResponse{
		Message: "Thank you for registering as a donor!",
		Donor:   donor,
	})
}

func (h *RegistrationHandler) CreateSOSRequest(w http.ResponseWriter, r *http.Request) {
	var form domain.SOSSubmission
	if !decodeJSON(w, r, &form) {
		return
	}

	req, err := h.registrationService.CreateSOSRequest(r.Context(), form)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, SOSResponse{
		Message:    "Your SOS request has been posted.",
		SOSRequest: req,
	})
}
