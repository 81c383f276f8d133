// Package mocks provides in-memory implementations of the core ports for
// tests. The fakes honour the same uniqueness rules as the Postgres schema.
package mocks

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// MockStore implements every repository port backed by maps.
type MockStore struct {
	mu sync.RWMutex

	accounts map[string]*domain.Account // by username
	banks    map[string]*domain.BloodBank
	stocks   map[string]*domain.BloodStock
	donors   []domain.Donor
	sos      []domain.SOSRequest

	// Call tracking for verification
	CreateBankAccountCalls int
	EnsureStockCalls       int
	UpdateStockCalls       []domain.StockUpdate

	// Error injection for testing error scenarios
	FindAccountError       error
	CreateBankAccountError error
	EnsureStockError       error
	UpdateStockError       error
	CreateDonorError       error
	CreateSOSError         error
}

var (
	_ ports.AccountRepository   = (*MockStore)(nil)
	_ ports.BloodBankRepository = (*MockStore)(nil)
	_ ports.StockRepository     = (*MockStore)(nil)
	_ ports.DonorRepository     = (*MockStore)(nil)
	_ ports.SOSRepository       = (*MockStore)(nil)
)

func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]*domain.Account),
		banks:    make(map[string]*domain.BloodBank),
		stocks:   make(map[string]*domain.BloodStock),
	}
}

// SeedBank adds a bank together with its login account.
func (m *MockStore) SeedBank(account domain.Account, bank domain.BloodBank) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Username] = &account
	m.banks[bank.ID] = &bank
}

// SeedStock adds a stock row as-is.
func (m *MockStore) SeedStock(stock domain.BloodStock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stocks[stock.ID] = &stock
}

// StocksFor returns the bank's rows in blood group order.
func (m *MockStore) StocksFor(bankID string) []domain.BloodStock {
	stocks, _ := m.ListStocks(context.Background(), bankID)
	return stocks
}

func (m *MockStore) BankCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.banks)
}

func (m *MockStore) StockCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stocks)
}

func (m *MockStore) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.FindAccountError != nil {
		return nil, m.FindAccountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockStore) CreateAccount(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[account.Username]; exists {
		return domain.ErrDuplicate
	}
	m.accounts[account.Username] = &account
	return nil
}

func (m *MockStore) CreateBankAccount(ctx context.Context, account domain.Account, bank domain.BloodBank) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateBankAccountCalls++
	if m.CreateBankAccountError != nil {
		return m.CreateBankAccountError
	}
	if _, exists := m.accounts[account.Username]; exists {
		return domain.ErrDuplicate
	}

	m.accounts[account.Username] = &account
	m.banks[bank.ID] = &bank
	return nil
}

func (m *MockStore) FindBankByID(ctx context.Context, id string) (*domain.BloodBank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bank, ok := m.banks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *bank
	return &copied, nil
}

func (m *MockStore) FindBankByAccountID(ctx context.Context, accountID string) (*domain.BloodBank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, bank := range m.banks {
		if bank.AccountID == accountID {
			copied := *bank
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockStore) SearchBanks(ctx context.Context, search domain.BankSearch) ([]domain.BloodBank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.BloodBank
	for _, bank := range m.banks {
		if !bank.IsVerified {
			continue
		}
		if search.City != "" && !strings.EqualFold(bank.City, search.City) {
			continue
		}
		if search.WithLocation && !bank.HasLocation() {
			continue
		}
		if search.BloodGroup != "" && !m.hasAvailable(bank.ID, search.BloodGroup) {
			continue
		}
		out = append(out, *bank)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockStore) hasAvailable(bankID string, group domain.BloodGroup) bool {
	for _, s := range m.stocks {
		if s.BloodBankID == bankID && s.BloodGroup == group && s.IsAvailable {
			return true
		}
	}
	return false
}

func (m *MockStore) ListPendingBanks(ctx context.Context) ([]domain.BloodBank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.BloodBank
	for _, bank := range m.banks {
		if !bank.IsVerified {
			out = append(out, *bank)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) SetBankVerified(ctx context.Context, id string, verified bool) (*domain.BloodBank, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bank, ok := m.banks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	bank.IsVerified = verified
	bank.UpdatedAt = time.Now().UTC()
	copied := *bank
	return &copied, nil
}

func (m *MockStore) CountVerifiedBanks(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, bank := range m.banks {
		if bank.IsVerified {
			n++
		}
	}
	return n, nil
}

func (m *MockStore) EnsureStock(ctx context.Context, stock domain.BloodStock) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EnsureStockCalls++
	if m.EnsureStockError != nil {
		return false, m.EnsureStockError
	}
	for _, existing := range m.stocks {
		if existing.BloodBankID == stock.BloodBankID && existing.BloodGroup == stock.BloodGroup {
			return false, nil
		}
	}
	stock.UpdatedAt = time.Now().UTC()
	m.stocks[stock.ID] = &stock
	return true, nil
}

func (m *MockStore) ListStocks(ctx context.Context, bankID string) ([]domain.BloodStock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.BloodStock
	for _, group := range domain.BloodGroups {
		for _, s := range m.stocks {
			if s.BloodBankID == bankID && s.BloodGroup == group {
				out = append(out, *s)
			}
		}
	}
	return out, nil
}

func (m *MockStore) FindStock(ctx context.Context, id string) (*domain.StockWithBank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.joined(id)
}

func (m *MockStore) UpdateStock(ctx context.Context, update domain.StockUpdate) (*domain.StockWithBank, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStockCalls = append(m.UpdateStockCalls, update)
	if m.UpdateStockError != nil {
		return nil, m.UpdateStockError
	}

	stock, ok := m.stocks[update.StockID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stock.Quantity = update.Quantity
	stock.PricePerUnit = update.PricePerUnit
	stock.IsAvailable = update.IsAvailable
	stock.UpdatedAt = time.Now().UTC()
	return m.joined(update.StockID)
}

func (m *MockStore) joined(id string) (*domain.StockWithBank, error) {
	stock, ok := m.stocks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := &domain.StockWithBank{BloodStock: *stock}
	if bank, ok := m.banks[stock.BloodBankID]; ok {
		out.BankName = bank.Name
		out.BankCity = bank.City
	}
	return out, nil
}

func (m *MockStore) CreateDonor(ctx context.Context, donor domain.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateDonorError != nil {
		return m.CreateDonorError
	}
	m.donors = append(m.donors, donor)
	return nil
}

func (m *MockStore) SearchDonors(ctx context.Context, filter domain.RecordFilter) ([]domain.Donor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Donor
	for _, d := range m.donors {
		if matches(filter, d.City, d.BloodGroup) {
			out = append(out, d)
		}
	}
	return limit(out, filter.Limit), nil
}

func (m *MockStore) CountDonors(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.donors), nil
}

func (m *MockStore) CreateSOSRequest(ctx context.Context, req domain.SOSRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateSOSError != nil {
		return m.CreateSOSError
	}
	m.sos = append(m.sos, req)
	return nil
}

// ListActiveSOSRequests returns the newest requests first.
func (m *MockStore) ListActiveSOSRequests(ctx context.Context, filter domain.RecordFilter) ([]domain.SOSRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.SOSRequest
	for i := len(m.sos) - 1; i >= 0; i-- {
		r := m.sos[i]
		if r.IsActive && matches(filter, r.City, r.BloodGroup) {
			out = append(out, r)
		}
	}
	return limit(out, filter.Limit), nil
}

func (m *MockStore) CountActiveSOSRequests(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, r := range m.sos {
		if r.IsActive {
			n++
		}
	}
	return n, nil
}

func matches(filter domain.RecordFilter, city string, group domain.BloodGroup) bool {
	if filter.City != "" && !strings.EqualFold(filter.City, city) {
		return false
	}
	return filter.BloodGroup == "" || filter.BloodGroup == group
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// ErrInjected is a convenience error for failure-path tests.
var ErrInjected = errors.New("injected failure")
