package ports

import (
	"context"
	"time"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Account   domain.Account    `json:"account"`
	Bank      *domain.BloodBank `json:"blood_bank,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type RegistrationService interface {
	RegisterBloodBank(ctx context.Context, form domain.BloodBankRegistration) (*domain.BloodBank, error)
	RegisterDonor(ctx context.Context, form domain.DonorRegistration) (*domain.Donor, error)
	CreateSOSRequest(ctx context.Context, form domain.SOSSubmission) (*domain.SOSRequest, error)
}

type StockUpdateResult struct {
	Updated int               `json:"updated"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type StockService interface {
	Dashboard(ctx context.Context, bankID string) (*domain.BloodBank, []domain.BloodStock, error)
	UpdateStocks(ctx context.Context, bankID string, updates []domain.StockUpdate) (*StockUpdateResult, error)
}

type Summary struct {
	VerifiedBanks int                 `json:"verified_banks"`
	Donors        int                 `json:"donors"`
	ActiveSOS     int                 `json:"active_sos_requests"`
	RecentSOS     []domain.SOSRequest `json:"recent_sos_requests"`
}

type BankDetail struct {
	Bank   domain.BloodBank    `json:"blood_bank"`
	Stocks []domain.BloodStock `json:"stocks"`
}

type DirectoryService interface {
	Summary(ctx context.Context) (*Summary, error)
	SearchBanks(ctx context.Context, city, bloodGroup string) ([]domain.BloodBank, error)
	MapBanks(ctx context.Context, city, bloodGroup string) ([]domain.BloodBank, error)
	BankDetail(ctx context.Context, id string) (*BankDetail, error)
	SearchDonors(ctx context.Context, city, bloodGroup string) ([]domain.Donor, error)
	ActiveSOSRequests(ctx context.Context, city, bloodGroup string) ([]domain.SOSRequest, error)
}

type AdminService interface {
	ListPendingBanks(ctx context.Context) ([]domain.BloodBank, error)
	SetBankVerified(ctx context.Context, bankID string, verified bool) (*domain.BloodBank, error)
}
