package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	devJWTSecret = "devtasker-dev-secret"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogDir   string

	StoreDriver string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// RedisHost empty disables the cache.
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	RateLimitMax    int
	RateLimitWindow time.Duration
	CORSOrigins     string

	SeedDemo bool
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads .env (when present) and the environment. Malformed numbers and
// durations are errors rather than silent defaults.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var errs []error
	cfg := Config{
		AppEnv:   getenv("APP_ENV", "development"),
		HTTPAddr: getenv("HTTP_ADDR", ":3004"),
		LogDir:   os.Getenv("LOG_DIR"),

		StoreDriver: getenv("STORE_DRIVER", StoreDriverPostgres),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      intEnv("DB_PORT", 5432, &errs),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME", "devtasker"),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     intEnv("REDIS_PORT", 6379, &errs),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0, &errs),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   durationEnv("TOKEN_TTL", 24*time.Hour, &errs),
		BcryptCost: intEnv("BCRYPT_COST", 10, &errs),

		RateLimitMax:    intEnv("RATE_LIMIT_MAX", 100, &errs),
		RateLimitWindow: durationEnv("RATE_LIMIT_WINDOW", time.Minute, &errs),
		CORSOrigins:     getenv("CORS_ORIGINS", "*"),

		SeedDemo: boolEnv("SEED_DEMO", false, &errs),
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, cfg.StoreDriver))
	}
	if cfg.JWTSecret == "" {
		if cfg.Production() {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return cfg, errors.Join(errs...)
}

// DSN is the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func boolEnv(key string, fallback bool, errs *[]error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}
