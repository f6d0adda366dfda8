package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, public URL), security settings
// - default: Values common across all environments (timezone, batch limits, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Store    StoreConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Issuance IssuanceConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"qrcard"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME" default:"qrcard"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

// StoreConfig selects the token store backend.
type StoreConfig struct {
	Driver     string `envconfig:"STORE_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"qrcard.db"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

// LogConfig controls the process logger. An empty Format means JSON in gin
// release mode and text otherwise.
type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	Format         string `envconfig:"LOG_FORMAT"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"12h"`
}

// AuthConfig holds the single operator account allowed to issue batches.
type AuthConfig struct {
	OperatorUsername     string `envconfig:"OPERATOR_USERNAME" default:"operator"`
	OperatorPasswordHash string `envconfig:"OPERATOR_PASSWORD_HASH"`
}

type IssuanceConfig struct {
	BaseURL          string `envconfig:"PUBLIC_BASE_URL" required:"true"`
	ExportDir        string `envconfig:"EXPORT_DIR" default:"qr_exports"`
	MaxQuantity      int    `envconfig:"ISSUANCE_MAX_QUANTITY" default:"200000"`
	MaxChunkSize     int    `envconfig:"ISSUANCE_MAX_CHUNK_SIZE" default:"10000"`
	DefaultChunkSize int    `envconfig:"ISSUANCE_DEFAULT_CHUNK_SIZE" default:"1000"`
	ArchiveCap       int    `envconfig:"ISSUANCE_ARCHIVE_CAP" default:"50000"`
	CollisionRetries int    `envconfig:"ISSUANCE_COLLISION_RETRIES" default:"3"`
	ImageSize        int    `envconfig:"QR_IMAGE_SIZE" default:"300"`
}

type MetricsConfig struct {
	Enabled   bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"qrcard"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Store: StoreConfig{
			Driver: StoreDriverPostgres,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-jwt-signing",
			Duration: "1h",
		},
		Auth: AuthConfig{
			OperatorUsername: "operator",
			// bcrypt hash of "password123"
			OperatorPasswordHash: "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A.",
		},
		Issuance: IssuanceConfig{
			BaseURL:          "https://cards.example.test",
			ExportDir:        "qr_exports_test",
			MaxQuantity:      200000,
			MaxChunkSize:     10000,
			DefaultChunkSize: 1000,
			ArchiveCap:       50000,
			CollisionRetries: 3,
			ImageSize:        128,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "qrcard_test",
		},
	}
}
