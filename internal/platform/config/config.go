package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable through STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL             string
	Port                    string
	IsProduction            bool
	StorageDriver           string
	JWTSecret               string
	JWTIssuer               string
	MigrationsPath          string
	RunMigrations           bool
	RateLimit               string // ulule formatted rate, e.g. "100-M"
	CORSAllowedOrigins      []string
	CurrencySymbol          string
	BootstrapOpeningBalance bool
	DBConnectRetries        int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "cashdesk")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CURRENCY_SYMBOL", "₹")
	viper.SetDefault("BOOTSTRAP_OPENING_BALANCE", false)
	viper.SetDefault("DB_CONNECT_RETRIES", 5)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:             viper.GetString("PGSQL_URL"),
		Port:                    viper.GetString("PORT"),
		IsProduction:            viper.GetBool("IS_PRODUCTION"),
		StorageDriver:           strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER"))),
		JWTSecret:               viper.GetString("JWT_SECRET"),
		JWTIssuer:               viper.GetString("JWT_ISSUER"),
		MigrationsPath:          viper.GetString("MIGRATIONS_PATH"),
		RunMigrations:           viper.GetBool("RUN_MIGRATIONS"),
		RateLimit:               viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:      splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		CurrencySymbol:          viper.GetString("CURRENCY_SYMBOL"),
		BootstrapOpeningBalance: viper.GetBool("BOOTSTRAP_OPENING_BALANCE"),
		DBConnectRetries:        viper.GetInt("DB_CONNECT_RETRIES"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %q", StorageDriverPostgres)
		}
	case StorageDriverMemory:
		if cfg.IsProduction {
			return nil, fmt.Errorf("STORAGE_DRIVER %q is not allowed in production", StorageDriverMemory)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.DBConnectRetries < 0 {
		cfg.DBConnectRetries = 0
	}

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
