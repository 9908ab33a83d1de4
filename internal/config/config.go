package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	Addr      string `validate:"required" env:"ADDR"`
	PGNPath   string `env:"PGN_PATH"`
	LogLevel  string `validate:"oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error" env:"LOG_LEVEL"`
	LogFormat string `validate:"oneof=console json" env:"LOG_FORMAT"`

	RedisURL        string `env:"REDIS_URL"`
	RedisHost       string `validate:"required_without=RedisURL" env:"REDIS_HOST"`
	RedisPort       int    `validate:"min=1,max=65535" env:"REDIS_PORT"`
	CacheTTLSeconds int    `validate:"min=1" env:"CACHE_TTL_SECONDS"`
	UseCache        bool   `env:"USE_REDIS_CACHE"`

	StoreEnabled  bool   `env:"STORE_IN_MYSQL"`
	StoreDriver   string `validate:"oneof=mysql postgres sqlite3" env:"STORE_DRIVER"`
	StoreDSN      string `env:"STORE_DSN"`
	MySQLHost     string `env:"MYSQL_HOST"`
	MySQLPort     int    `validate:"min=1,max=65535" env:"MYSQL_PORT"`
	MySQLUser     string `env:"MYSQL_USER"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	MySQLDB       string `env:"MYSQL_DB"`

	WriteWorkerCount int `validate:"min=1" env:"WRITE_WORKER_COUNT"`
	WriteQueueSize   int `validate:"min=1" env:"WRITE_QUEUE_SIZE"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("ADDR", ":8080"),
		PGNPath:   envOr("PGN_PATH", ""),
		LogLevel:  envOr("LOG_LEVEL", "INFO"),
		LogFormat: envOr("LOG_FORMAT", "console"),

		RedisURL:        envOr("REDIS_URL", ""),
		RedisHost:       envOr("REDIS_HOST", "localhost"),
		RedisPort:       envIntOr("REDIS_PORT", 6379),
		CacheTTLSeconds: envIntOr("CACHE_TTL_SECONDS", 3600),
		UseCache:        envBoolOr("USE_REDIS_CACHE", false),

		StoreEnabled:  envBoolOr("STORE_IN_MYSQL", false),
		StoreDriver:   envOr("STORE_DRIVER", DriverMySQL),
		StoreDSN:      envOr("STORE_DSN", ""),
		MySQLHost:     envOr("MYSQL_HOST", "localhost"),
		MySQLPort:     envIntOr("MYSQL_PORT", 3306),
		MySQLUser:     envOr("MYSQL_USER", "chess"),
		MySQLPassword: envOr("MYSQL_PASSWORD", "chesspass"),
		MySQLDB:       envOr("MYSQL_DB", "chess_insights"),

		WriteWorkerCount: envIntOr("WRITE_WORKER_COUNT", 2),
		WriteQueueSize:   envIntOr("WRITE_QUEUE_SIZE", 64),
	}
}

var validate = validator.New()

// Validate checks the configuration and reports the first offending setting by its environment name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return c.validateStore()
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name := envName(fe.StructField())
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Errorf("%s cannot be empty", name)
	case "oneof":
		return fmt.Errorf("%s must be one of %s", name, fe.Param())
	case "min", "max":
		return fmt.Errorf("%s is out of range: %v", name, fe.Value())
	default:
		return fmt.Errorf("%s is invalid (%s)", name, fe.Tag())
	}
}

// validateStore checks the store settings only when snapshots are enabled.
func (c Config) validateStore() error {
	if !c.StoreEnabled {
		return nil
	}
	if c.StoreDriver != DriverMySQL && c.StoreDSN == "" {
		return fmt.Errorf("STORE_DSN is required for STORE_DRIVER=%s", c.StoreDriver)
	}
	if c.StoreDriver == DriverMySQL && c.StoreDSN != "" {
		if _, err := mysql.ParseDSN(c.StoreDSN); err != nil {
			return fmt.Errorf("STORE_DSN is not a valid mysql DSN: %w", err)
		}
	}
	return nil
}

// RedisAddr returns host:port for the cache when no REDIS_URL is configured.
func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

// StoreDataSource returns the DSN handed to database/sql for the configured driver.
// For MySQL the DSN is assembled from the MYSQL_* settings unless STORE_DSN overrides it,
// and parseTime is always on so created_at scans into time.Time.
func (c Config) StoreDataSource() string {
	if c.StoreDSN != "" {
		if c.StoreDriver != DriverMySQL {
			return c.StoreDSN
		}
		mc, err := mysql.ParseDSN(c.StoreDSN)
		if err != nil {
			return c.StoreDSN
		}
		mc.ParseTime = true
		return mc.FormatDSN()
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.MySQLHost, strconv.Itoa(c.MySQLPort))
	mc.User = c.MySQLUser
	mc.Passwd = c.MySQLPassword
	mc.DBName = c.MySQLDB
	mc.ParseTime = true
	return mc.FormatDSN()
}

func envName(field string) string {
	if f, ok := configFields[field]; ok {
		return f
	}
	return strings.ToUpper(field)
}

var configFields = func() map[string]string {
	out := map[string]string{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag := f.Tag.Get("env"); tag != "" {
			out[f.Name] = tag
		}
	}
	return out
}()

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

// CacheTTL returns the configured cache entry lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
