package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DispatchModeEcho = "echo"
	DispatchModeLive = "live"

	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Email     EmailConfig
	SMS       SMSConfig
	OTP       OTPConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	ExpiryMinutes int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMSConfig struct {
	APIKey  string
	BaseURL string
	Brand   string
}

type OTPConfig struct {
	ExpiryMinutes          int
	Length                 int
	CooldownSeconds        int
	HashCost               int
	DispatchMode           string
	Store                  string
	CleanupIntervalMinutes int
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func (c OTPConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

func (c OTPConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads path (if it exists) and overlays the process environment.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_NAME", "otp-registration")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")
	v.SetDefault("JWT_ISSUER", "otp-registration")
	v.SetDefault("JWT_EXPIRY_MINUTES", 15)
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMS_BASE_URL", "https://www.fast2sms.com/dev/bulkV2")
	v.SetDefault("SMS_BRAND", "Registration")
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_COOLDOWN_SECONDS", 15)
	v.SetDefault("OTP_HASH_COST", 10)
	v.SetDefault("OTP_DISPATCH_MODE", DispatchModeEcho)
	v.SetDefault("OTP_STORE", StorePostgres)
	v.SetDefault("OTP_CLEANUP_INTERVAL_MINUTES", 5)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Env:     v.GetString("APP_ENV"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			Issuer:        v.GetString("JWT_ISSUER"),
			ExpiryMinutes: v.GetInt("JWT_EXPIRY_MINUTES"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		SMS: SMSConfig{
			APIKey:  v.GetString("SMS_API_KEY"),
			BaseURL: v.GetString("SMS_BASE_URL"),
			Brand:   v.GetString("SMS_BRAND"),
		},
		OTP: OTPConfig{
			ExpiryMinutes:          v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:                 v.GetInt("OTP_LENGTH"),
			CooldownSeconds:        v.GetInt("OTP_COOLDOWN_SECONDS"),
			HashCost:               v.GetInt("OTP_HASH_COST"),
			DispatchMode:           strings.ToLower(v.GetString("OTP_DISPATCH_MODE")),
			Store:                  strings.ToLower(v.GetString("OTP_STORE")),
			CleanupIntervalMinutes: v.GetInt("OTP_CLEANUP_INTERVAL_MINUTES"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the server cannot run safely with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}

	switch c.OTP.DispatchMode {
	case DispatchModeEcho:
	case DispatchModeLive:
		if c.Email.Host == "" || c.Email.User == "" {
			return errors.New("SMTP_HOST and SMTP_USER are required when OTP_DISPATCH_MODE=live")
		}
		if c.SMS.APIKey == "" {
			return errors.New("SMS_API_KEY is required when OTP_DISPATCH_MODE=live")
		}
	default:
		return fmt.Errorf("unknown OTP_DISPATCH_MODE %q", c.OTP.DispatchMode)
	}

	switch c.OTP.Store {
	case StorePostgres:
	case StoreRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required when OTP_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown OTP_STORE %q", c.OTP.Store)
	}

	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", c.OTP.Length)
	}
	if c.OTP.ExpiryMinutes <= 0 || c.OTP.CooldownSeconds <= 0 || c.JWT.ExpiryMinutes <= 0 {
		return errors.New("OTP_EXPIRY_MINUTES, OTP_COOLDOWN_SECONDS and JWT_EXPIRY_MINUTES must be positive")
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
