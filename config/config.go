// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	// Storage backend for the key-value collections.
	StoreBackend string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Redis – used when StoreBackend is "redis".
	RedisURL    string
	RedisPrefix string

	// Scorecard rules
	MaxAdditionalVenues int
	DedupeRecords       bool
	Timezone            string
	BuiltinVenuesFile   string

	// Server
	ServiceName string
	Debug       bool
	Port        string
	TLSDomains  []string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := load(newViper())
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func load(v *viper.Viper) (*Config, error) {
	// Defaults
	v.SetDefault("STORE_BACKEND", BackendPostgres)
	v.SetDefault("DB_USER", "parkgolf")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "parkgolf")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_PREFIX", "parkgolf:")
	v.SetDefault("MAX_ADDITIONAL_VENUES", 3)
	v.SetDefault("DEDUPE_RECORDS", true)
	v.SetDefault("TIMEZONE", "Asia/Seoul")
	v.SetDefault("SERVICE_NAME", "parkgolf")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		StoreBackend:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DBUser:              v.GetString("DB_USER"),
		DBPass:              v.GetString("DB_PASS"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBName:              v.GetString("DB_NAME"),
		DBSSLMode:           v.GetString("DB_SSLMODE"),
		RedisURL:            v.GetString("REDIS_URL"),
		RedisPrefix:         v.GetString("REDIS_PREFIX"),
		MaxAdditionalVenues: v.GetInt("MAX_ADDITIONAL_VENUES"),
		DedupeRecords:       v.GetBool("DEDUPE_RECORDS"),
		Timezone:            v.GetString("TIMEZONE"),
		BuiltinVenuesFile:   v.GetString("BUILTIN_VENUES_FILE"),
		ServiceName:         strings.TrimSpace(v.GetString("SERVICE_NAME")),
		Debug:               v.GetBool("DEBUG"),
		Port:                v.GetString("PORT"),
		TLSDomains:          splitTrimmed(v.GetString("TLS_DOMAINS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// Location returns the time zone used to group records by month and day.
// An unknown zone name falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("config: unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" && c.DBPass == "" {
			return fmt.Errorf("config: DATABASE_URL or DB_PASS must be set")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL must be set for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("config: SERVICE_NAME must not be blank")
	}
	if c.MaxAdditionalVenues < 0 {
		return fmt.Errorf("config: MAX_ADDITIONAL_VENUES must not be negative")
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
