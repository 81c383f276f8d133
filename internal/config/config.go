package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	JWTPrivateKey  *rsa.PrivateKey
	JWTPublicKey   *rsa.PublicKey
	TokenTTL       time.Duration
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	AdminUsername  string
	AdminPassword  string
	Mirror         MirrorConfig
}

// MirrorConfig selects and configures the external sync target.
type MirrorConfig struct {
	Backend         string // sheets, workbook, rabbitmq, none
	Timeout         time.Duration
	SpreadsheetID   string
	CredentialsPath string
	SheetsAPIURL    string
	WorkbookPath    string
	RabbitMQURL     string
	QueueName       string
	BloodBanks      string
	Donors          string
	SOSRequests     string
	BloodStock      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("redis_address", "localhost:6379")
	v.SetDefault("private_key_path", "/etc/certs/private.pem")
	v.SetDefault("public_key_path", "/etc/certs/public.pem")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("mirror_backend", "sheets")
	v.SetDefault("mirror_timeout", "10s")
	v.SetDefault("google_sheets_api_url", "https://sheets.googleapis.com")
	v.SetDefault("mirror_workbook_path", "bloodconnect-mirror.xlsx")
	v.SetDefault("mirror_queue_name", "bloodconnect.mirror")
	v.SetDefault("mirror_sheet_blood_banks", "BloodBanks")
	v.SetDefault("mirror_sheet_donors", "Donors")
	v.SetDefault("mirror_sheet_sos_requests", "SOSRequests")
	v.SetDefault("mirror_sheet_blood_stock", "BloodStock")
}

// Load reads the environment (and an optional config.yaml) and panics when a
// required setting is missing or unreadable.
func Load() *Config {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	dbURL := v.GetString("db_connection_string")
	if dbURL == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
	}

	privateKey, err := loadPrivateKey(v.GetString("private_key_path"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	publicKey, err := loadPublicKey(v.GetString("public_key_path"))
	if err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}

	return &Config{
		Port:           v.GetString("port"),
		DatabaseURL:    dbURL,
		RedisAddress:   v.GetString("redis_address"),
		RedisPassword:  v.GetString("redis_password"),
		JWTPrivateKey:  privateKey,
		JWTPublicKey:   publicKey,
		TokenTTL:       v.GetDuration("token_ttl"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		AdminUsername:  v.GetString("admin_username"),
		AdminPassword:  v.GetString("admin_password"),
		Mirror: MirrorConfig{
			Backend:         strings.ToLower(v.GetString("mirror_backend")),
			Timeout:         v.GetDuration("mirror_timeout"),
			SpreadsheetID:   v.GetString("google_sheets_spreadsheet_id"),
			CredentialsPath: v.GetString("google_sheets_credentials_path"),
			SheetsAPIURL:    v.GetString("google_sheets_api_url"),
			WorkbookPath:    v.GetString("mirror_workbook_path"),
			RabbitMQURL:     v.GetString("rabbitmq_url"),
			QueueName:       v.GetString("mirror_queue_name"),
			BloodBanks:      v.GetString("mirror_sheet_blood_banks"),
			Donors:          v.GetString("mirror_sheet_donors"),
			SOSRequests:     v.GetString("mirror_sheet_sos_requests"),
			BloodStock:      v.GetString("mirror_sheet_blood_stock"),
		},
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}
