package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

func markAvailable(t *testing.T, env *testEnv, bankID string, group domain.BloodGroup) {
	t.Helper()
	stock := stockFor(t, env, bankID, group)
	_, err := env.store.UpdateStock(context.Background(), domain.StockUpdate{
		StockID: stock.ID, Quantity: 5, IsAvailable: true,
	})
	require.NoError(t, err)
}

func TestDirectoryService_SearchBanks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	verifiedWithStock := seedBank(t, env, "Sahyadri", "Pune", true)
	markAvailable(t, env, verifiedWithStock.ID, domain.OPositive)

	unverified := seedBank(t, env, "Pending Bank", "Pune", false)
	markAvailable(t, env, unverified.ID, domain.OPositive)

	verifiedNoStock := seedBank(t, env, "Ruby", "Pune", true)
	markAvailable(t, env, verifiedNoStock.ID, domain.ONegative)

	otherCity := seedBank(t, env, "Lilavati", "Mumbai", true)
	markAvailable(t, env, otherCity.ID, domain.OPositive)

	banks, err := env.directory.SearchBanks(ctx, "Pune", "O+")
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, verifiedWithStock.ID, banks[0].ID)

	banks, err = env.directory.SearchBanks(ctx, "pune", "")
	require.NoError(t, err)
	assert.Len(t, banks, 2, "city match ignores case and unverified banks stay hidden")

	banks, err = env.directory.SearchBanks(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, banks, 3)
}

func TestDirectoryService_SearchBanks_InvalidGroup(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.directory.SearchBanks(context.Background(), "Pune", "Z+")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "blood_group")
}

func TestDirectoryService_MapBanks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.registration.RegisterBloodBank(ctx, validBankForm("located"))
	require.NoError(t, err)
	pending, err := env.store.ListPendingBanks(ctx)
	require.NoError(t, err)
	_, err = env.admin.SetBankVerified(ctx, pending[0].ID, true)
	require.NoError(t, err)

	seedBank(t, env, "NoCoordinates", "Pune", true)

	banks, err := env.directory.MapBanks(ctx, "Pune", "")
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.True(t, banks[0].HasLocation())
}

func TestDirectoryService_BankDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	verified := seedBank(t, env, "Sahyadri", "Pune", true)
	unverified := seedBank(t, env, "Pending", "Pune", false)

	detail, err := env.directory.BankDetail(ctx, verified.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sahyadri", detail.Bank.Name)
	assert.Len(t, detail.Stocks, 8)

	_, err = env.directory.BankDetail(ctx, unverified.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.directory.BankDetail(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDirectoryService_DonorsAndSOS(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, d := range []domain.DonorRegistration{
		{Name: "Asha", BloodGroup: "O+", Phone: "1", City: "Pune"},
		{Name: "Vikram", BloodGroup: "A-", Phone: "2", City: "Pune"},
		{Name: "Meera", BloodGroup: "O+", Phone: "3", City: "Nashik"},
	} {
		_, err := env.registration.RegisterDonor(ctx, d)
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := env.registration.CreateSOSRequest(ctx, domain.SOSSubmission{
			RequesterName: "Requester", BloodGroup: "B+", City: "Pune", Phone: "9",
		})
		require.NoError(t, err)
	}

	donors, err := env.directory.SearchDonors(ctx, "Pune", "O+")
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "Asha", donors[0].Name)

	sos, err := env.directory.ActiveSOSRequests(ctx, "Pune", "B+")
	require.NoError(t, err)
	assert.Len(t, sos, 7)

	summary, err := env.directory.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Donors)
	assert.Equal(t, 7, summary.ActiveSOS)
	assert.Len(t, summary.RecentSOS, 5)
	assert.Zero(t, summary.VerifiedBanks)
}
