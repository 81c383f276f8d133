package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

const bankColumns = `b.id, b.account_id, a.username, b.name, b.city, b.address, b.phone,
	b.email, b.latitude, b.longitude, b.is_verified, b.created_at, b.updated_at`

const bankFrom = ` FROM blood_banks b JOIN accounts a ON a.id = b.account_id`

func scanBank(row rowScanner) (*domain.BloodBank, error) {
	var b domain.BloodBank
	err := row.Scan(
		&b.ID, &b.AccountID, &b.Username, &b.Name, &b.City, &b.Address, &b.Phone,
		&b.Email, &b.Latitude, &b.Longitude, &b.IsVerified, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBankAccount writes the account and its bank in one transaction so a
// failed bank insert never leaves an orphaned login behind.
func (r *SQLRepository) CreateBankAccount(ctx context.Context, account domain.Account, bank domain.BloodBank) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("begin bank registration", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO accounts (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)",
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.CreatedAt,
	)
	if err != nil {
		return translate("insert account", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO blood_banks
			(id, account_id, name, city, address, phone, email, latitude, longitude, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		bank.ID,
		account.ID,
		bank.Name,
		bank.City,
		bank.Address,
		bank.Phone,
		bank.Email,
		bank.Latitude,
		bank.Longitude,
		bank.IsVerified,
		bank.CreatedAt,
		bank.UpdatedAt,
	)
	if err != nil {
		return translate("insert blood bank", err)
	}

	return translate("commit bank registration", tx.Commit())
}

func (r *SQLRepository) FindBankByID(ctx context.Context, id string) (*domain.BloodBank, error) {
	bank, err := scanBank(r.db.QueryRowContext(ctx,
		"SELECT "+bankColumns+bankFrom+" WHERE b.id = $1", id))
	if err != nil {
		return nil, translate("find blood bank", err)
	}
	return bank, nil
}

func (r *SQLRepository) FindBankByAccountID(ctx context.Context, accountID string) (*domain.BloodBank, error) {
	bank, err := scanBank(r.db.QueryRowContext(ctx,
		"SELECT "+bankColumns+bankFrom+" WHERE b.account_id = $1", accountID))
	if err != nil {
		return nil, translate("find blood bank by account", err)
	}
	return bank, nil
}

func (r *SQLRepository) SearchBanks(ctx context.Context, search domain.BankSearch) ([]domain.BloodBank, error) {
	var (
		where = []string{"b.is_verified = TRUE"}
		args  []any
	)
	if search.City != "" {
		args = append(args, search.City)
		where = append(where, fmt.Sprintf("LOWER(b.city) = LOWER($%d)", len(args)))
	}
	if search.BloodGroup != "" {
		args = append(args, string(search.BloodGroup))
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM blood_stocks s WHERE s.blood_bank_id = b.id AND s.blood_group = $%d AND s.is_available = TRUE)",
			len(args)))
	}
	if search.WithLocation {
		where = append(where, "b.latitude IS NOT NULL AND b.longitude IS NOT NULL")
	}

	query := "SELECT " + bankColumns + bankFrom +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY b.name"
	return r.queryBanks(ctx, "search blood banks", query, args...)
}

func (r *SQLRepository) ListPendingBanks(ctx context.Context) ([]domain.BloodBank, error) {
	return r.queryBanks(ctx, "list pending blood banks",
		"SELECT "+bankColumns+bankFrom+" WHERE b.is_verified = FALSE ORDER BY b.created_at")
}

func (r *SQLRepository) SetBankVerified(ctx context.Context, id string, verified bool) (*domain.BloodBank, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE blood_banks SET is_verified = $2, updated_at = NOW() WHERE id = $1",
		id, verified)
	if err != nil {
		return nil, translate("verify blood bank", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindBankByID(ctx, id)
}

func (r *SQLRepository) CountVerifiedBanks(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blood_banks WHERE is_verified = TRUE").Scan(&n)
	return n, translate("count blood banks", err)
}

func (r *SQLRepository) queryBanks(ctx context.Context, op, query string, args ...any) ([]domain.BloodBank, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	var banks []domain.BloodBank
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		banks = append(banks, *bank)
	}
	return banks, translate(op, rows.Err())
}
