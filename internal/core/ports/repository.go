package ports

import (
	"context"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

type AccountRepository interface {
	FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account domain.Account) error
}

type BloodBankRepository interface {
	// CreateBankAccount inserts the login identity and its bank atomically.
	// A taken username yields domain.ErrDuplicate and writes nothing.
	CreateBankAccount(ctx context.Context, account domain.Account, bank domain.BloodBank) error
	FindBankByID(ctx context.Context, id string) (*domain.BloodBank, error)
	FindBankByAccountID(ctx context.Context, accountID string) (*domain.BloodBank, error)
	// SearchBanks only ever returns verified banks.
	SearchBanks(ctx context.Context, search domain.BankSearch) ([]domain.BloodBank, error)
	ListPendingBanks(ctx context.Context) ([]domain.BloodBank, error)
	SetBankVerified(ctx context.Context, id string, verified bool) (*domain.BloodBank, error)
	CountVerifiedBanks(ctx context.Context) (int, error)
}

type StockRepository interface {
	// EnsureStock inserts the row unless one exists for (bank, group);
	// an existing row is never modified.
	EnsureStock(ctx context.Context, stock domain.BloodStock) (bool, error)
	ListStocks(ctx context.Context, bankID string) ([]domain.BloodStock, error)
	FindStock(ctx context.Context, id string) (*domain.StockWithBank, error)
	UpdateStock(ctx context.Context, update domain.StockUpdate) (*domain.StockWithBank, error)
}

type DonorRepository interface {
	CreateDonor(ctx context.Context, donor domain.Donor) error
	SearchDonors(ctx context.Context, filter domain.RecordFilter) ([]domain.Donor, error)
	CountDonors(ctx context.Context) (int, error)
}

type SOSRepository interface {
	CreateSOSRequest(ctx context.Context, req domain.SOSRequest) error
	ListActiveSOSRequests(ctx context.Context, filter domain.RecordFilter) ([]domain.SOSRequest, error)
	CountActiveSOSRequests(ctx context.Context) (int, error)
}
