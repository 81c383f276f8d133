package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// maxPrice bounds price_per_unit to NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

type StockService struct {
	banks     ports.BloodBankRepository
	stocks    ports.StockRepository
	stockInit *StockInitializer
	mirror    *Mirror
	metrics   ports.Metrics
	logger    *zap.Logger
}

var _ ports.StockService = (*StockService)(nil)

func NewStockService(
	banks ports.BloodBankRepository,
	stocks ports.StockRepository,
	stockInit *StockInitializer,
	mirror *Mirror,
	metrics ports.Metrics,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockService{
		banks:     banks,
		stocks:    stocks,
		stockInit: stockInit,
		mirror:    mirror,
		metrics:   metrics,
		logger:    logger.Named("stock"),
	}
}

// Dashboard returns the bank and its stock rows, filling in any missing
// group first.
func (s *StockService) Dashboard(ctx context.Context, bankID string) (*domain.BloodBank, []domain.BloodStock, error) {
	bank, err := s.verifiedBank(ctx, bankID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.stockInit.EnsureDefaults(ctx, bank.ID); err != nil {
		return nil, nil, err
	}

	stocks, err := s.stocks.ListStocks(ctx, bank.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list stocks: %w", err)
	}
	return bank, stocks, nil
}

// UpdateStocks saves each row on its own: a row that fails validation or
// does not belong to the bank is reported in the result and skipped.
func (s *StockService) UpdateStocks(
	ctx context.Context,
	bankID string,
	updates []domain.StockUpdate,
) (*ports.StockUpdateResult, error) {
	if _, err := s.verifiedBank(ctx, bankID); err != nil {
		return nil, err
	}

	result := &ports.StockUpdateResult{Errors: make(map[string]string)}
	for i, u := range updates {
		key := u.StockID
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}

		if msg := checkStockUpdate(u); msg != "" {
			result.Errors[key] = msg
			continue
		}

		existing, err := s.stocks.FindStock(ctx, u.StockID)
		if err != nil || existing.BloodBankID != bankID {
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				s.logger.Error("stock lookup failed", zap.String("stock_id", u.StockID), zap.Error(err))
			}
			result.Errors[key] = "Stock entry not found."
			continue
		}

		saved, err := s.stocks.UpdateStock(ctx, u)
		if err != nil {
			s.logger.Error("stock update failed", zap.String("stock_id", u.StockID), zap.Error(err))
			result.Errors[key] = "Stock entry could not be saved."
			continue
		}

		result.Updated++
		s.mirror.SyncBloodStock(ctx, *saved)
	}

	s.metrics.StockRowsUpdated(result.Updated)
	s.logger.Info("stock batch processed",
		zap.String("bank_id", bankID),
		zap.Int("submitted", len(updates)),
		zap.Int("updated", result.Updated),
	)

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

func (s *StockService) verifiedBank(ctx context.Context, bankID string) (*domain.BloodBank, error) {
	bank, err := s.banks.FindBankByID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if !bank.IsVerified {
		return nil, domain.ErrPendingVerification
	}
	return bank, nil
}

func checkStockUpdate(u domain.StockUpdate) string {
	switch {
	case u.StockID == "":
		return "Stock id is required."
	case u.Quantity < 0:
		return "Quantity cannot be negative."
	case u.PricePerUnit.IsNegative():
		return "Price cannot be negative."
	case !u.PricePerUnit.Equal(u.PricePerUnit.Round(2)):
		return "Ensure that there are no more than 2 decimal places."
	case u.PricePerUnit.GreaterThanOrEqual(maxPrice):
		return "Ensure that there are no more than 10 digits in total."
	}
	return ""
}
