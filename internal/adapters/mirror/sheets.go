package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/config"
	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

const (
	sheetsScope       = "https://www.googleapis.com/auth/spreadsheets"
	defaultTokenURI   = "https://oauth2.googleapis.com/token"
	jwtBearerGrant    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionTTL      = time.Hour
	tokenExpiryLeeway = time.Minute
)

// ServiceAccount is the subset of a Google service-account key file needed
// to mint access tokens.
type ServiceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	TokenURI     string `json:"token_uri"`
}

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsPath string
	APIURL          string
	Timeout         time.Duration
}

// SheetsTarget appends rows to a Google spreadsheet through the Sheets v4
// values:append endpoint. There are no retries: a failed call is reported to
// the caller and the row is dropped.
type SheetsTarget struct {
	client        *resty.Client
	spreadsheetID string
	account       *ServiceAccount
	cb            *gobreaker.CircuitBreaker
	logger        *zap.Logger
	now           func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

var _ ports.SyncTarget = (*SheetsTarget)(nil)

// NewSheetsTarget loads the service account credentials. A missing
// spreadsheet id or unreadable credentials leave the target disabled rather
// than failing startup.
func NewSheetsTarget(cfg SheetsConfig, logger *zap.Logger) *SheetsTarget {
	logger = logger.Named("sheets")
	t := &SheetsTarget{
		client: resty.New().
			SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
			SetTimeout(cfg.Timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		spreadsheetID: cfg.SpreadsheetID,
		cb:            config.NewCircuitBreaker(config.SheetsBreaker, logger),
		logger:        logger,
		now:           time.Now,
	}

	if cfg.SpreadsheetID == "" {
		logger.Warn("spreadsheet id not configured, sheets mirror disabled")
		return t
	}
	account, err := loadServiceAccount(cfg.CredentialsPath)
	if err != nil {
		logger.Warn("google sheets credentials not found, sheets mirror disabled", zap.Error(err))
		return t
	}
	t.account = account
	logger.Info("google sheets client initialized", zap.String("client_email", account.ClientEmail))
	return t
}

func loadServiceAccount(path string) (*ServiceAccount, error) {
	if path == "" {
		return nil, errors.New("credentials path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, errors.New("credentials missing client_email or private_key")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = defaultTokenURI
	}
	return &sa, nil
}

func (t *SheetsTarget) Enabled() bool {
	return t.account != nil
}

type appendRequest struct {
	Values [][]string `json:"values"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *SheetsTarget) Append(ctx context.Context, target string, values []string) error {
	if !t.Enabled() {
		return domain.ErrMirrorDisabled
	}

	_, err := t.cb.Execute(func() (interface{}, error) {
		token, err := t.token(ctx)
		if err != nil {
			return nil, err
		}

		var apiErr apiError
		resp, err := t.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetPathParams(map[string]string{
				"spreadsheet": t.spreadsheetID,
				"range":       target + "!A:A",
			}).
			SetQueryParam("valueInputOption", "RAW").
			SetBody(appendRequest{Values: [][]string{values}}).
			SetError(&apiErr).
			Post("/v4/spreadsheets/{spreadsheet}/values/{range}:append")
		if err != nil {
			return nil, fmt.Errorf("sheets append: %w", err)
		}
		if resp.IsError() {
			if resp.StatusCode() == 401 {
				t.invalidateToken()
			}
			return nil, fmt.Errorf("sheets append: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	t.logger.Debug("row appended", zap.String("sheet", target))
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached access token, exchanging a freshly signed assertion
// when the cached one is missing or about to expire.
func (t *SheetsTarget) token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.accessToken != "" && now.Before(t.expiresAt) {
		return t.accessToken, nil
	}

	assertion, err := t.signAssertion(now)
	if err != nil {
		return "", err
	}

	var out tokenResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": jwtBearerGrant,
			"assertion":  assertion,
		}).
		SetResult(&out).
		Post(t.account.TokenURI)
	if err != nil {
		return "", fmt.Errorf("sheets token: %w", err)
	}
	if resp.IsError() || out.AccessToken == "" {
		return "", fmt.Errorf("sheets token: status %d", resp.StatusCode())
	}

	t.accessToken = out.AccessToken
	t.expiresAt = now.Add(time.Duration(out.ExpiresIn)*time.Second - tokenExpiryLeeway)
	return t.accessToken, nil
}

func (t *SheetsTarget) invalidateToken() {
	t.mu.Lock()
	t.accessToken = ""
	t.mu.Unlock()
}

func (t *SheetsTarget) signAssertion(now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(t.account.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   t.account.ClientEmail,
		"scope": sheetsScope,
		"aud":   t.account.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionTTL).Unix(),
	})
	if t.account.PrivateKeyID != "" {
		token.Header["kid"] = t.account.PrivateKeyID
	}
	return token.SignedString(key)
}
