package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// StockInitializer guarantees one stock row per blood group for a bank.
type StockInitializer struct {
	stocks ports.StockRepository
	logger *zap.Logger
}

func NewStockInitializer(stocks ports.StockRepository, logger *zap.Logger) *StockInitializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockInitializer{stocks: stocks, logger: logger.Named("stock-init")}
}

// EnsureDefaults creates the missing (bank, group) rows with zero quantity,
// zero price and no availability. Existing rows are left untouched, so it is
// safe to call any number of times.
func (s *StockInitializer) EnsureDefaults(ctx context.Context, bankID string) error {
	created := 0
	for _, group := range domain.BloodGroups {
		stock := domain.DefaultStock(bankID, group)
		stock.ID = uuid.NewString()

		inserted, err := s.stocks.EnsureStock(ctx, stock)
		if err != nil {
			return fmt.Errorf("ensure %s stock for bank %s: %w", group, bankID, err)
		}
		if inserted {
			created++
		}
	}

	if created > 0 {
		s.logger.Debug("created default stock rows",
			zap.String("bank_id", bankID),
			zap.Int("created", created),
		)
	}
	return nil
}
