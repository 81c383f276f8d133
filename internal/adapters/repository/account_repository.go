package repository

import (
	"context"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

func (r *SQLRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, created_at FROM accounts WHERE username = $1",
		username,
	).Scan(&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.CreatedAt)
	if err != nil {
		return nil, translate("find account", err)
	}
	return &account, nil
}

func (r *SQLRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)",
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.CreatedAt,
	)
	return translate("create account", err)
}
