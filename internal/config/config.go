package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"memberhub/internal/pkg/logger"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Storage   StorageConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Cron      CronConfig
	Seed      SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql, postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// StorageConfig selects where uploaded files go
type StorageConfig struct {
	Driver        string // local or s3
	LocalPath     string
	LocalURL      string
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	S3PublicURL   string
	S3EndpointURL string
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxFileBytes int64
}

// RateLimitConfig holds the fixed-window limiter settings
type RateLimitConfig struct {
	Max        int
	AuthMax    int
	Expiration time.Duration
}

// CronConfig holds scheduled job settings
type CronConfig struct {
	Enabled    bool
	ExpirySpec string
}

// SeedConfig holds the bootstrap admin account
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	DefaultZone   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "5000"),
		Database:  loadDatabaseConfig(appMode),
		JWT:       loadJWTConfig(appMode),
		Cookie:    loadCookieConfig(appMode),
		Storage:   loadStorageConfig(),
		Upload:    UploadConfig{MaxFileBytes: getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024)},
		RateLimit: loadRateLimitConfig(),
		Cron: CronConfig{
			Enabled:    getEnvBool("CRON_ENABLED", true),
			ExpirySpec: getEnv("CRON_EXPIRY_SPEC", "0 1 * * *"),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("SEED_ADMIN_NAME", "System Administrator"),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			DefaultZone:   getEnv("SEED_DEFAULT_ZONE", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	AppConfig = config

	logger.Info("Configuration loaded", "mode", appMode, "db_driver", config.Database.Driver, "storage", config.Storage.Driver)
	return config, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be local or s3)", c.Storage.Driver)
	}
	if c.IsProd() && (c.JWT.Secret == "default_secret" || c.JWT.RefreshSecret == "default_refresh_secret") {
		return fmt.Errorf("JWT secrets must be set in prod mode")
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", "mysql"),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "memberhub"),
		SQLitePath: getEnv("SQLITE_PATH", "memberhub.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "10080")) // 7 days
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "30"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:        getEnv("STORAGE_DRIVER", "local"),
		LocalPath:     getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		LocalURL:      getEnv("STORAGE_LOCAL_URL", "/uploads"),
		S3Bucket:      getEnv("STORAGE_S3_BUCKET", ""),
		S3Region:      getEnv("STORAGE_S3_REGION", "us-east-1"),
		S3Prefix:      getEnv("STORAGE_S3_PREFIX", "memberhub/"),
		S3PublicURL:   getEnv("STORAGE_S3_PUBLIC_URL", ""),
		S3EndpointURL: getEnv("STORAGE_S3_ENDPOINT", ""),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	windowSecs := getEnvInt64("RATE_LIMIT_WINDOW_SECONDS", 60)
	return RateLimitConfig{
		Max:        int(getEnvInt64("RATE_LIMIT_MAX", 100)),
		AuthMax:    int(getEnvInt64("RATE_LIMIT_AUTH_MAX", 5)),
		Expiration: time.Duration(windowSecs) * time.Second,
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
