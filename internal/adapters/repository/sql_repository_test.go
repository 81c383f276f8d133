package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

func newMockRepo(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewSQLRepository(db), mock
}

var bankRowColumns = []string{
	"id", "account_id", "username", "name", "city", "address", "phone",
	"email", "latitude", "longitude", "is_verified", "created_at", "updated_at",
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestCreateBankAccount_CommitsBothRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	account := domain.Account{ID: "acc-1", Username: "citybank", PasswordHash: "hash", Role: domain.RoleBank, CreatedAt: now}
	bank := domain.BloodBank{ID: "bank-1", Name: "City Bank", City: "Pune", Address: "MG Road", Phone: "123", CreatedAt: now, UpdatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO accounts")).
		WithArgs("acc-1", "citybank", "hash", domain.RoleBank, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO blood_banks")).
		WithArgs("bank-1", "acc-1", "City Bank", "Pune", "MG Road", "123", nil, nil, nil, false, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBankAccount(context.Background(), account, bank))
}

func TestCreateBankAccount_DuplicateUsernameRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO accounts")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_username_key"})
	mock.ExpectRollback()

	err := repo.CreateBankAccount(context.Background(), domain.Account{ID: "acc-1"}, domain.BloodBank{ID: "bank-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateBankAccount_BankInsertFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO accounts")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO blood_banks")).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.CreateBankAccount(context.Background(), domain.Account{ID: "acc-1"}, domain.BloodBank{ID: "bank-1"})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
}

func TestEnsureStock(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "inserts missing row", affected: 1, want: true},
		{name: "leaves existing row alone", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			stock := domain.DefaultStock("bank-1", domain.APositive)
			stock.ID = "stock-1"

			mock.ExpectExec(q("ON CONFLICT (blood_bank_id, blood_group) DO NOTHING")).
				WithArgs("stock-1", "bank-1", "A+", 0, decimal.Zero, false).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			inserted, err := repo.EnsureStock(context.Background(), stock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
		})
	}
}

func TestFindBankByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("WHERE b.id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bankRowColumns))

	bank, err := repo.FindBankByID(context.Background(), "missing")
	assert.Nil(t, bank)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLookups_MalformedIDIsNotFound(t *testing.T) {
	badUUID := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		call   func(repo *SQLRepository) error
	}{
		{
			name: "find_bank",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(q("WHERE b.id = $1")).WithArgs("abc").WillReturnError(badUUID)
			},
			call: func(repo *SQLRepository) error {
				_, err := repo.FindBankByID(context.Background(), "abc")
				return err
			},
		},
		{
			name: "verify_bank",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(q("UPDATE blood_banks SET is_verified = $2")).
					WithArgs("abc", true).
					WillReturnError(badUUID)
			},
			call: func(repo *SQLRepository) error {
				_, err := repo.SetBankVerified(context.Background(), "abc", true)
				return err
			},
		},
		{
			name: "find_stock",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(q("FROM blood_stocks")).WithArgs("abc").WillReturnError(badUUID)
			},
			call: func(repo *SQLRepository) error {
				_, err := repo.FindStock(context.Background(), "abc")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.expect(mock)

			err := tt.call(repo)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestSearchBanks_FiltersByCityGroupAndLocation(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(q("b.is_verified = TRUE AND LOWER(b.city) = LOWER($1) AND EXISTS")+
		".*"+q("s.blood_group = $2 AND s.is_available = TRUE")+
		".*"+q("b.latitude IS NOT NULL")).
		WithArgs("pune", "O+").
		WillReturnRows(sqlmock.NewRows(bankRowColumns).
			AddRow("bank-1", "acc-1", "citybank", "City Bank", "Pune", "MG Road", "123",
				nil, 18.52, 73.85, true, now, now))

	banks, err := repo.SearchBanks(context.Background(), domain.BankSearch{
		City:         "pune",
		BloodGroup:   domain.OPositive,
		WithLocation: true,
	})
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "City Bank", banks[0].Name)
	assert.Nil(t, banks[0].Email)
	require.NotNil(t, banks[0].Latitude)
	assert.InDelta(t, 18.52, *banks[0].Latitude, 1e-9)
	assert.True(t, banks[0].IsVerified)
}

func TestSearchBanks_NoFiltersStillVerifiedOnly(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("WHERE b.is_verified = TRUE ORDER BY b.name")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(bankRowColumns))

	banks, err := repo.SearchBanks(context.Background(), domain.BankSearch{})
	require.NoError(t, err)
	assert.Empty(t, banks)
}

func TestSetBankVerified_UnknownBank(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q("UPDATE blood_banks SET is_verified = $2")).
		WithArgs("missing", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.SetBankVerified(context.Background(), "missing", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListStocks_CanonicalOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(q("ORDER BY array_position($2::text[], s.blood_group::text)")).
		WithArgs("bank-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blood_bank_id", "blood_group", "quantity", "price_per_unit", "is_available", "updated_at"}).
			AddRow("s1", "bank-1", "A+", 4, "120.00", true, now).
			AddRow("s2", "bank-1", "A-", 0, "0.00", false, now))

	stocks, err := repo.ListStocks(context.Background(), "bank-1")
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, domain.APositive, stocks[0].BloodGroup)
	assert.Equal(t, 4, stocks[0].Quantity)
	assert.True(t, decimal.RequireFromString("120").Equal(stocks[0].PricePerUnit))
}

func TestUpdateStock_ReturnsJoinedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	price := decimal.RequireFromString("150.50")

	mock.ExpectQuery(q("UPDATE blood_stocks s")).
		WithArgs("s1", 7, price, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blood_bank_id", "blood_group", "quantity", "price_per_unit", "is_available", "updated_at", "name", "city"}).
			AddRow("s1", "bank-1", "B+", 7, "150.50", true, now, "City Bank", "Pune"))

	saved, err := repo.UpdateStock(context.Background(), domain.StockUpdate{
		StockID: "s1", Quantity: 7, PricePerUnit: price, IsAvailable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "City Bank", saved.BankName)
	assert.Equal(t, "Pune", saved.BankCity)
	assert.Equal(t, domain.BPositive, saved.BloodGroup)
	assert.Equal(t, "150.50", saved.PricePerUnit.StringFixed(2))
}

func TestUpdateStock_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("UPDATE blood_stocks s")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateStock(context.Background(), domain.StockUpdate{StockID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListActiveSOSRequests_AppliesFilterAndLimit(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	hospital := "Ruby Hall"

	mock.ExpectQuery(q("WHERE is_active = TRUE AND LOWER(city) = LOWER($1) ORDER BY created_at DESC LIMIT 5")).
		WithArgs("Pune").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requester_name", "blood_group", "city", "phone", "hospital_name", "address", "urgency_notes", "is_active", "created_at"}).
			AddRow("sos-1", "Asha", "AB-", "Pune", "999", hospital, nil, nil, true, now))

	reqs, err := repo.ListActiveSOSRequests(context.Background(), domain.RecordFilter{City: "Pune", Limit: 5})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].HospitalName)
	assert.Equal(t, hospital, *reqs[0].HospitalName)
	assert.Nil(t, reqs[0].Address)
	assert.Equal(t, domain.ABNegative, reqs[0].BloodGroup)
}

func TestSearchDonors_GroupFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(q("FROM donors WHERE blood_group = $1 ORDER BY created_at DESC")).
		WithArgs("O-").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "blood_group", "phone", "city", "email", "created_at"}).
			AddRow("d1", "Ravi", "O-", "888", "Mumbai", "ravi@example.com", now))

	donors, err := repo.SearchDonors(context.Background(), domain.RecordFilter{BloodGroup: domain.ONegative})
	require.NoError(t, err)
	require.Len(t, donors, 1)
	require.NotNil(t, donors[0].Email)
	assert.Equal(t, "ravi@example.com", *donors[0].Email)
}

func TestCreateDonor_WrapsDriverError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q("INSERT INTO donors")).WillReturnError(sql.ErrConnDone)

	err := repo.CreateDonor(context.Background(), domain.Donor{ID: "d1", BloodGroup: domain.APositive})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.ErrorContains(t, err, "create donor")
}
