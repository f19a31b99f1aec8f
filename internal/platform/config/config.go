package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenSecret         string

	CORSOrigins    []string
	LoginRateLimit string `mapstructure:"LOGIN_RATE_LIMIT"` // ulule/limiter format, e.g. "10-M"
	PosthogAPIKey  string `mapstructure:"POSTHOG_API_KEY"`

	// File storage
	StorageDir     string
	UploadFolder   string
	PDFFolder      string
	MaxUploadBytes int64

	// Mail
	MailServer        string `mapstructure:"MAIL_SERVER"`
	MailPort          int    `mapstructure:"MAIL_PORT"`
	MailUseTLS        bool   `mapstructure:"MAIL_USE_TLS"`
	MailUsername      string `mapstructure:"MAIL_USERNAME"`
	MailPassword      string `mapstructure:"MAIL_PASSWORD"`
	MailDefaultSender string `mapstructure:"MAIL_DEFAULT_SENDER"`
	CompanyName       string `mapstructure:"COMPANY_NAME"`

	// Batch locking. An empty RedisURL selects the in-process locker.
	RedisURL     string        `mapstructure:"REDIS_URL"`
	BatchLockTTL time.Duration `mapstructure:"BATCH_LOCK_TTL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "payslip-portal")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "720h")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("STORAGE_DIR", "storage")
	viper.SetDefault("UPLOAD_FOLDER", "uploads")
	viper.SetDefault("PDF_FOLDER", "pdfs")
	viper.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
	viper.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("MAIL_USE_TLS", true)
	viper.SetDefault("MAIL_USERNAME", "")
	viper.SetDefault("MAIL_PASSWORD", "")
	viper.SetDefault("MAIL_DEFAULT_SENDER", "")
	viper.SetDefault("COMPANY_NAME", "Payslip Portal")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("BATCH_LOCK_TTL", "30m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "payslip-portal"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	// Refresh tokens live for 30 days unless overridden.
	refreshTokenExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshTokenExpiryDuration, err := time.ParseDuration(refreshTokenExpiryStr)
	if err != nil {
		refreshTokenExpiryDuration = time.Hour * 24 * 30
		log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshTokenExpiryStr, refreshTokenExpiryDuration.String())
	}

	refreshTokenSecret := viper.GetString("REFRESH_TOKEN_SECRET")
	if refreshTokenSecret == "" {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
		refreshTokenSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
	}

	lockTTLStr := viper.GetString("BATCH_LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = 30 * time.Minute
		log.Printf("Warning: Invalid value for BATCH_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lockTTL.String())
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer
	cfg.RefreshTokenExpiryDuration = refreshTokenExpiryDuration
	cfg.RefreshTokenSecret = refreshTokenSecret

	cfg.CORSOrigins = splitList(viper.GetString("CORS_ORIGINS"))
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.StorageDir = viper.GetString("STORAGE_DIR")
	cfg.UploadFolder = filepath.Join(cfg.StorageDir, viper.GetString("UPLOAD_FOLDER"))
	cfg.PDFFolder = filepath.Join(cfg.StorageDir, viper.GetString("PDF_FOLDER"))
	cfg.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")

	cfg.MailServer = viper.GetString("MAIL_SERVER")
	cfg.MailPort = viper.GetInt("MAIL_PORT")
	cfg.MailUseTLS = viper.GetBool("MAIL_USE_TLS")
	cfg.MailUsername = viper.GetString("MAIL_USERNAME")
	cfg.MailPassword = viper.GetString("MAIL_PASSWORD")
	cfg.MailDefaultSender = viper.GetString("MAIL_DEFAULT_SENDER")
	if cfg.MailDefaultSender == "" {
		cfg.MailDefaultSender = cfg.MailUsername
	}
	if cfg.MailUsername == "" {
		log.Println("Warning: MAIL_USERNAME not set. Salary slips cannot be emailed.")
	}
	cfg.CompanyName = viper.GetString("COMPANY_NAME")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.BatchLockTTL = lockTTL

	return cfg, nil
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
