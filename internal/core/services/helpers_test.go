package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/services"
	"github.com/bloodconnect/bloodconnect-service/test/mocks"
)

type testEnv struct {
	store        *mocks.MockStore
	sync         *mocks.MockSyncTarget
	metrics      *mocks.MockMetrics
	mirror       *services.Mirror
	stockInit    *services.StockInitializer
	registration *services.RegistrationService
	stock        *services.StockService
	directory    *services.DirectoryService
	admin        *services.AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := mocks.NewMockStore()
	target := mocks.NewMockSyncTarget()
	metrics := mocks.NewMockMetrics()
	logger := zap.NewNop()

	mirror := services.NewMirror(target, services.DefaultMirrorTargets(), time.Second, logger, metrics)
	stockInit := services.NewStockInitializer(store, logger)

	return &testEnv{
		store:        store,
		sync:         target,
		metrics:      metrics,
		mirror:       mirror,
		stockInit:    stockInit,
		registration: services.NewRegistrationService(store, store, store, store, stockInit, mirror, metrics, logger),
		stock:        services.NewStockService(store, store, stockInit, mirror, metrics, logger),
		directory:    services.NewDirectoryService(store, store, store, store),
		admin:        services.NewAdminService(store, mirror, logger),
	}
}

func validBankForm(username string) domain.BloodBankRegistration {
	lat, lng := 18.5204, 73.8567
	return domain.BloodBankRegistration{
		Username:        username,
		Password:        "s3cure-pass",
		PasswordConfirm: "s3cure-pass",
		Name:            "CityBank",
		City:            "Pune",
		Address:         "12 FC Road",
		Phone:           "9876543210",
		Email:           "contact@citybank.example",
		Latitude:        &lat,
		Longitude:       &lng,
	}
}

// seedBank stores a bank (verified or not) with its eight default rows.
func seedBank(t *testing.T, env *testEnv, name, city string, verified bool) domain.BloodBank {
	t.Helper()

	account := domain.Account{
		ID:       uuid.NewString(),
		Username: name + "-login",
		Role:     domain.RoleBank,
	}
	bank := domain.BloodBank{
		ID:         uuid.NewString(),
		AccountID:  account.ID,
		Username:   account.Username,
		Name:       name,
		City:       city,
		IsVerified: verified,
		CreatedAt:  time.Now().UTC(),
	}
	env.store.SeedBank(account, bank)
	require.NoError(t, env.stockInit.EnsureDefaults(context.Background(), bank.ID))
	return bank
}

func stockFor(t *testing.T, env *testEnv, bankID string, group domain.BloodGroup) domain.BloodStock {
	t.Helper()
	for _, s := range env.store.StocksFor(bankID) {
		if s.BloodGroup == group {
			return s
		}
	}
	t.Fatalf("no %s stock for bank %s", group, bankID)
	return domain.BloodStock{}
}
