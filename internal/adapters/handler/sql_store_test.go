package handler_test

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/adapters/handler"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/middleware"
	"github.com/bloodconnect/bloodconnect-service/internal/adapters/repository"
	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/services"
	"github.com/bloodconnect/bloodconnect-service/test/mocks"
)

// newSQLFixture serves the public and admin routes from the Postgres
// repository over sqlmock, so driver errors reach the handlers as they
// would in production.
func newSQLFixture(t *testing.T) (*apiFixture, sqlmock.Sqlmock, *rsa.PrivateKey) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := repository.NewSQLRepository(db)
	target := mocks.NewMockSyncTarget()
	mirror := services.NewMirror(target, services.DefaultMirrorTargets(), time.Second, logger, mocks.NewMockMetrics())

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           &handler.AuthHandler{},
		Registration:   &handler.RegistrationHandler{},
		Directory:      handler.NewDirectoryHandler(services.NewDirectoryService(repo, repo, repo, repo), logger),
		Stock:          &handler.StockHandler{},
		Admin:          handler.NewAdminHandler(services.NewAdminService(repo, mirror, logger), logger),
		Health:         handler.NewHealthHandler("test", nil),
		AuthMiddleware: middleware.NewAuthMiddleware(&key.PublicKey, mocks.NewMockSessionStore(), logger),
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})
	return &apiFixture{router: router, sync: target}, mock, key
}

func signAdminToken(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": string(domain.RoleAdmin),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestBankDetail_MalformedIDIsNotFound(t *testing.T) {
	f, mock, _ := newSQLFixture(t)
	mock.ExpectQuery("WHERE b.id = \\$1").
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`})

	rec, out := f.do(t, http.MethodGet, "/banks/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", out["error"])
}

func TestVerifyBank_MalformedIDIsNotFound(t *testing.T) {
	f, mock, key := newSQLFixture(t)
	mock.ExpectExec("UPDATE blood_banks SET is_verified").
		WithArgs("abc", true).
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

	token := signAdminToken(t, key)
	rec, out := f.do(t, http.MethodPost, "/admin/banks/abc/verify", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", out["error"])
	assert.Zero(t, f.sync.CallCount())
}
