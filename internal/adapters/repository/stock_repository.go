package repository

import (
	"context"

	"github.com/lib/pq"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

const stockColumns = "s.id, s.blood_bank_id, s.blood_group, s.quantity, s.price_per_unit, s.is_available, s.updated_at"

// EnsureStock relies on UNIQUE(blood_bank_id, blood_group): a concurrent or
// repeated insert for the same pair is a no-op and reports false.
func (r *SQLRepository) EnsureStock(ctx context.Context, stock domain.BloodStock) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO blood_stocks (id, blood_bank_id, blood_group, quantity, price_per_unit, is_available, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (blood_bank_id, blood_group) DO NOTHING`,
		stock.ID,
		stock.BloodBankID,
		string(stock.BloodGroup),
		stock.Quantity,
		stock.PricePerUnit,
		stock.IsAvailable,
	)
	if err != nil {
		return false, translate("ensure stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, translate("ensure stock", err)
	}
	return n == 1, nil
}

// ListStocks returns the bank's rows in canonical blood group order.
func (r *SQLRepository) ListStocks(ctx context.Context, bankID string) ([]domain.BloodStock, error) {
	groups := make([]string, len(domain.BloodGroups))
	for i, g := range domain.BloodGroups {
		groups[i] = string(g)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+stockColumns+" FROM blood_stocks s WHERE s.blood_bank_id = $1 ORDER BY array_position($2::text[], s.blood_group::text)",
		bankID, pq.Array(groups))
	if err != nil {
		return nil, translate("list stocks", err)
	}
	defer rows.Close()

	var stocks []domain.BloodStock
	for rows.Next() {
		var s domain.BloodStock
		if err := rows.Scan(&s.ID, &s.BloodBankID, &s.BloodGroup, &s.Quantity, &s.PricePerUnit, &s.IsAvailable, &s.UpdatedAt); err != nil {
			return nil, translate("list stocks", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, translate("list stocks", rows.Err())
}

func (r *SQLRepository) FindStock(ctx context.Context, id string) (*domain.StockWithBank, error) {
	var s domain.StockWithBank
	err := r.db.QueryRowContext(ctx,
		"SELECT "+stockColumns+", b.name, b.city FROM blood_stocks s JOIN blood_banks b ON b.id = s.blood_bank_id WHERE s.id = $1",
		id,
	).Scan(&s.ID, &s.BloodBankID, &s.BloodGroup, &s.Quantity, &s.PricePerUnit, &s.IsAvailable, &s.UpdatedAt, &s.BankName, &s.BankCity)
	if err != nil {
		return nil, translate("find stock", err)
	}
	return &s, nil
}

// UpdateStock overwrites the editable fields; concurrent edits are
// last-write-wins.
func (r *SQLRepository) UpdateStock(ctx context.Context, update domain.StockUpdate) (*domain.StockWithBank, error) {
	var s domain.StockWithBank
	err := r.db.QueryRowContext(ctx,
		`UPDATE blood_stocks s
		SET quantity = $2, price_per_unit = $3, is_available = $4, updated_at = NOW()
		FROM blood_banks b
		WHERE s.id = $1 AND b.id = s.blood_bank_id
		RETURNING `+stockColumns+", b.name, b.city",
		update.StockID,
		update.Quantity,
		update.PricePerUnit,
		update.IsAvailable,
	).Scan(&s.ID, &s.BloodBankID, &s.BloodGroup, &s.Quantity, &s.PricePerUnit, &s.IsAvailable, &s.UpdatedAt, &s.BankName, &s.BankCity)
	if err != nil {
		return nil, translate("update stock", err)
	}
	return &s, nil
}
