package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

const recentSOSLimit = 5

// DirectoryService answers the public read-only queries.
type DirectoryService struct {
	banks  ports.BloodBankRepository
	stocks ports.StockRepository
	donors ports.DonorRepository
	sos    ports.SOSRepository
}

var _ ports.DirectoryService = (*DirectoryService)(nil)

func NewDirectoryService(
	banks ports.BloodBankRepository,
	stocks ports.StockRepository,
	donors ports.DonorRepository,
	sos ports.SOSRepository,
) *DirectoryService {
	return &DirectoryService{banks: banks, stocks: stocks, donors: donors, sos: sos}
}

func (s *DirectoryService) Summary(ctx context.Context) (*ports.Summary, error) {
	banks, err := s.banks.CountVerifiedBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count banks: %w", err)
	}
	donors, err := s.donors.CountDonors(ctx)
	if err != nil {
		return nil, fmt.Errorf("count donors: %w", err)
	}
	active, err := s.sos.CountActiveSOSRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sos requests: %w", err)
	}
	recent, err := s.sos.ListActiveSOSRequests(ctx, domain.RecordFilter{Limit: recentSOSLimit})
	if err != nil {
		return nil, fmt.Errorf("list sos requests: %w", err)
	}

	return &ports.Summary{
		VerifiedBanks: banks,
		Donors:        donors,
		ActiveSOS:     active,
		RecentSOS:     recent,
	}, nil
}

// SearchBanks lists verified banks in the city; with a blood group, only
// those holding an available stock row for it.
func (s *DirectoryService) SearchBanks(ctx context.Context, city, bloodGroup string) ([]domain.BloodBank, error) {
	search, err := bankSearch(city, bloodGroup)
	if err != nil {
		return nil, err
	}
	return s.banks.SearchBanks(ctx, search)
}

// MapBanks is SearchBanks restricted to banks with coordinates.
func (s *DirectoryService) MapBanks(ctx context.Context, city, bloodGroup string) ([]domain.BloodBank, error) {
	search, err := bankSearch(city, bloodGroup)
	if err != nil {
		return nil, err
	}
	search.WithLocation = true
	return s.banks.SearchBanks(ctx, search)
}

// BankDetail hides unverified banks behind domain.ErrNotFound.
func (s *DirectoryService) BankDetail(ctx context.Context, id string) (*ports.BankDetail, error) {
	bank, err := s.banks.FindBankByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bank.IsVerified {
		return nil, domain.ErrNotFound
	}

	stocks, err := s.stocks.ListStocks(ctx, bank.ID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return &ports.BankDetail{Bank: *bank, Stocks: stocks}, nil
}

func (s *DirectoryService) SearchDonors(ctx context.Context, city, bloodGroup string) ([]domain.Donor, error) {
	filter, err := recordFilter(city, bloodGroup)
	if err != nil {
		return nil, err
	}
	return s.donors.SearchDonors(ctx, filter)
}

func (s *DirectoryService) ActiveSOSRequests(ctx context.Context, city, bloodGroup string) ([]domain.SOSRequest, error) {
	filter, err := recordFilter(city, bloodGroup)
	if err != nil {
		return nil, err
	}
	return s.sos.ListActiveSOSRequests(ctx, filter)
}

func bankSearch(city, bloodGroup string) (domain.BankSearch, error) {
	filter, err := recordFilter(city, bloodGroup)
	if err != nil {
		return domain.BankSearch{}, err
	}
	return domain.BankSearch{City: filter.City, BloodGroup: filter.BloodGroup}, nil
}

func recordFilter(city, bloodGroup string) (domain.RecordFilter, error) {
	filter := domain.RecordFilter{City: strings.TrimSpace(city)}

	bloodGroup = strings.TrimSpace(bloodGroup)
	if bloodGroup != "" {
		group, err := domain.ParseBloodGroup(bloodGroup)
		if err != nil {
			verr := domain.NewValidationError()
			verr.Add("blood_group", "Select a valid choice. That choice is not one of the available choices.")
			return filter, verr
		}
		filter.BloodGroup = group
	}
	return filter, nil
}
