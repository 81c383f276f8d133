package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// SQLRepository is the Postgres entity store. One value serves every
// repository port.
type SQLRepository struct {
	db *sql.DB
}

var (
	_ ports.AccountRepository   = (*SQLRepository)(nil)
	_ ports.BloodBankRepository = (*SQLRepository)(nil)
	_ ports.StockRepository     = (*SQLRepository)(nil)
	_ ports.DonorRepository     = (*SQLRepository)(nil)
	_ ports.SOSRepository       = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const (
	uniqueViolation      = pq.ErrorCode("23505")
	invalidTextRepresent = pq.ErrorCode("22P02")
)

// translate maps driver errors onto domain sentinels and wraps the rest.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
		case invalidTextRepresent:
			// A malformed id cannot name any row.
			return domain.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}
