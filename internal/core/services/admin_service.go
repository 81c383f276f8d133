package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

type AdminService struct {
	banks  ports.BloodBankRepository
	mirror *Mirror
	logger *zap.Logger
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(banks ports.BloodBankRepository, mirror *Mirror, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{banks: banks, mirror: mirror, logger: logger.Named("admin")}
}

func (s *AdminService) ListPendingBanks(ctx context.Context) ([]domain.BloodBank, error) {
	return s.banks.ListPendingBanks(ctx)
}

// SetBankVerified flips the verification gate and mirrors the bank row.
func (s *AdminService) SetBankVerified(ctx context.Context, bankID string, verified bool) (*domain.BloodBank, error) {
	bank, err := s.banks.SetBankVerified(ctx, bankID, verified)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bank verification changed",
		zap.String("bank_id", bank.ID),
		zap.Bool("verified", bank.IsVerified),
	)
	s.mirror.SyncBloodBank(ctx, *bank)
	return bank, nil
}
