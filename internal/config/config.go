package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	SQLitePath         string
	RedisHost          string
	RedisPort          string
	SessionSecret      string
	JWTSecret          string
	JWTTTLHours        int
	GinMode            string
	ServerPort         string
	LogLevel           string
	SeedData           bool
	OpenAIAPIKey       string
	LoginRatePerMinute int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	driver := getEnv("DB_DRIVER", DriverSQLite)
	cfg := &Config{
		DBDriver:      driver,
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", defaultDBPort(driver)),
		DBUser:        getEnv("DB_USER", "agiliza"),
		DBPassword:    getEnv("DB_PASSWORD", "agiliza"),
		DBName:        getEnv("DB_NAME", "agiliza"),
		SQLitePath:    getEnv("SQLITE_PATH", "agiliza.db"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:     getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
	}

	var err error
	if cfg.JWTTTLHours, err = getEnvInt("JWT_TTL_HOURS", 24); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMinute, err = getEnvInt("LOGIN_RATE_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	if cfg.SeedData, err = getEnvBool("SEED_DATA", true); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// defaultDBPort is the standard listening port of the driver's server.
func defaultDBPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}
