package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

const duplicateUsernameMessage = "A user with that username already exists."

type RegistrationService struct {
	accounts  ports.AccountRepository
	banks     ports.BloodBankRepository
	donors    ports.DonorRepository
	sos       ports.SOSRepository
	stockInit *StockInitializer
	mirror    *Mirror
	validator *FormValidator
	metrics   ports.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(
	accounts ports.AccountRepository,
	banks ports.BloodBankRepository,
	donors ports.DonorRepository,
	sos ports.SOSRepository,
	stockInit *StockInitializer,
	mirror *Mirror,
	metrics ports.Metrics,
	logger *zap.Logger,
) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RegistrationService{
		accounts:  accounts,
		banks:     banks,
		donors:    donors,
		sos:       sos,
		stockInit: stockInit,
		mirror:    mirror,
		validator: NewFormValidator(),
		metrics:   metrics,
		logger:    logger.Named("registration"),
		now:       time.Now,
	}
}

// RegisterBloodBank creates the login identity and its unverified bank, then
// the bank's default stock rows, then mirrors the bank. Validation problems
// come back as *domain.ValidationError with nothing written.
func (s *RegistrationService) RegisterBloodBank(
	ctx context.Context,
	form domain.BloodBankRegistration,
) (*domain.BloodBank, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Name = strings.TrimSpace(form.Name)
	form.City = strings.TrimSpace(form.City)
	form.Address = strings.TrimSpace(form.Address)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.TrimSpace(form.Email)

	verr := domain.NewValidationError()
	if err := s.validator.Check(form); err != nil {
		if !errors.As(err, &verr) {
			return nil, err
		}
	}
	if form.Username != "" {
		if _, err := s.accounts.FindAccountByUsername(ctx, form.Username); err == nil {
			verr.Add("username", duplicateUsernameMessage)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("look up username: %w", err)
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := hashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Username:     form.Username,
		PasswordHash: hash,
		Role:         domain.RoleBank,
		CreatedAt:    now,
	}
	bank := domain.BloodBank{
		ID:         uuid.NewString(),
		AccountID:  account.ID,
		Username:   form.Username,
		Name:       form.Name,
		City:       form.City,
		Address:    form.Address,
		Phone:      form.Phone,
		Email:      emptyToNil(form.Email),
		Latitude:   form.Latitude,
		Longitude:  form.Longitude,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.banks.CreateBankAccount(ctx, account, bank); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			verr := domain.NewValidationError()
			verr.Add("username", duplicateUsernameMessage)
			return nil, verr
		}
		return nil, fmt.Errorf("create blood bank: %w", err)
	}

	if err := s.stockInit.EnsureDefaults(ctx, bank.ID); err != nil {
		s.logger.Error("default stock rows not created",
			zap.String("bank_id", bank.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrStockSetupIncomplete, err)
	}

	s.metrics.RegistrationCompleted("blood_bank")
	s.logger.Info("blood bank registered",
		zap.String("bank_id", bank.ID),
		zap.String("username", bank.Username),
		zap.String("city", bank.City),
	)

	s.mirror.SyncBloodBank(ctx, bank)
	return &bank, nil
}

func (s *RegistrationService) RegisterDonor(
	ctx context.Context,
	form domain.DonorRegistration,
) (*domain.Donor, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.BloodGroup = strings.TrimSpace(form.BloodGroup)
	form.Phone = strings.TrimSpace(form.Phone)
	form.City = strings.TrimSpace(form.City)
	form.Email = strings.TrimSpace(form.Email)

	if err := s.validator.Check(form); err != nil {
		return nil, err
	}

	donor := domain.Donor{
		ID:         uuid.NewString(),
		Name:       form.Name,
		BloodGroup: domain.BloodGroup(form.BloodGroup),
		Phone:      form.Phone,
		City:       form.City,
		Email:      emptyToNil(form.Email),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.donors.CreateDonor(ctx, donor); err != nil {
		return nil, fmt.Errorf("create donor: %w", err)
	}

	s.metrics.RegistrationCompleted("donor")
	s.logger.Info("donor registered",
		zap.String("donor_id", donor.ID),
		zap.String("blood_group", donor.BloodGroup.String()),
	)

	s.mirror.SyncDonor(ctx, donor)
	return &donor, nil
}

func (s *RegistrationService) CreateSOSRequest(
	ctx context.Context,
	form domain.SOSSubmission,
) (*domain.SOSRequest, error) {
	form.RequesterName = strings.TrimSpace(form.RequesterName)
	form.BloodGroup = strings.TrimSpace(form.BloodGroup)
	form.City = strings.TrimSpace(form.City)
	form.Phone = strings.TrimSpace(form.Phone)
	form.HospitalName = strings.TrimSpace(form.HospitalName)
	form.Address = strings.TrimSpace(form.Address)
	form.UrgencyNotes = strings.TrimSpace(form.UrgencyNotes)

	if err := s.validator.Check(form); err != nil {
		return nil, err
	}

	req := domain.SOSRequest{
		ID:            uuid.NewString(),
		RequesterName: form.RequesterName,
		BloodGroup:    domain.BloodGroup(form.BloodGroup),
		City:          form.City,
		Phone:         form.Phone,
		HospitalName:  emptyToNil(form.HospitalName),
		Address:       emptyToNil(form.Address),
		UrgencyNotes:  emptyToNil(form.UrgencyNotes),
		IsActive:      true,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.sos.CreateSOSRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create sos request: %w", err)
	}

	s.metrics.RegistrationCompleted("sos_request")
	s.logger.Info("sos request created",
		zap.String("sos_id", req.ID),
		zap.String("blood_group", req.BloodGroup.String()),
		zap.String("city", req.City),
	)

	s.mirror.SyncSOSRequest(ctx, req)
	return &req, nil
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
