package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	sessions  ports.SessionStore
	logger    *zap.Logger
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, sessions ports.SessionStore, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		sessions:  sessions,
		logger:    logger.Named("auth"),
	}
}

// Session is the authenticated caller, taken from verified token claims.
type Session struct {
	AccountID string
	BankID    string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

type contextKey string

const sessionKey contextKey = "session"

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// RequireRole rejects requests without a valid, unrevoked bearer token whose
// role is one of roles.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			session, err := m.parse(parts[1])
			if err != nil {
				m.logger.Debug("token rejected", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			revoked, err := m.sessions.IsRevoked(r.Context(), session.TokenID)
			if err != nil {
				m.logger.Error("revocation check failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "session store unavailable")
				return
			}
			if revoked {
				writeError(w, http.StatusUnauthorized, "token revoked")
				return
			}

			allowed := false
			for _, role := range roles {
				if session.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				m.logger.Info("role mismatch",
					zap.String("account_id", session.AccountID),
					zap.String("role", string(session.Role)),
				)
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func (m *AuthMiddleware) parse(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || role == "" || jti == "" {
		return Session{}, jwt.ErrTokenRequiredClaimMissing
	}
	bankID, _ := claims["bank_id"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Session{}, jwt.ErrTokenRequiredClaimMissing
	}

	return Session{
		AccountID: sub,
		BankID:    bankID,
		Role:      domain.Role(role),
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
