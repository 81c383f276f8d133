package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

type AuthService struct {
	accounts   ports.AccountRepository
	banks      ports.BloodBankRepository
	sessions   ports.SessionStore
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	accounts ports.AccountRepository,
	banks ports.BloodBankRepository,
	sessions ports.SessionStore,
	privateKey *rsa.PrivateKey,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   accounts,
		banks:      banks,
		sessions:   sessions,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
		logger:     logger.Named("auth"),
		now:        time.Now,
	}
}

// Login checks credentials and issues a session token. A bank that has not
// been verified yet gets domain.ErrPendingVerification and no token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	account, err := s.accounts.FindAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if err := checkPassword(account.PasswordHash, password); err != nil {
		return nil, err
	}

	result := &ports.LoginResult{Account: *account}
	claims := jwt.MapClaims{
		"sub":  account.ID,
		"role": string(account.Role),
	}

	if account.Role == domain.RoleBank {
		bank, err := s.banks.FindBankByAccountID(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("look up blood bank: %w", err)
		}
		if !bank.IsVerified {
			s.logger.Info("login refused, bank pending verification", zap.String("bank_id", bank.ID))
			return nil, domain.ErrPendingVerification
		}
		result.Bank = bank
		claims["bank_id"] = bank.ID
	}

	now := s.now()
	result.ExpiresAt = now.Add(s.tokenTTL)
	claims["jti"] = uuid.NewString()
	claims["iat"] = now.Unix()
	claims["exp"] = result.ExpiresAt.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	result.Token, err = token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	return result, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := s.sessions.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// EnsureAdmin creates the administrator account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.accounts.FindAccountByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	admin := domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, admin); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin account created", zap.String("username", username))
	return nil
}
