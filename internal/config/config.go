package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration (account store for the identity provider)
	Database DatabaseConfig

	// Authentication configuration
	Auth AuthConfig

	// Media and export file locations
	Media MediaConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// MaxMountedScreens caps how many screens may be mounted at once
	MaxMountedScreens int
	// ScreenIdleTTL is how long a screen may go untouched before it is unmounted
	ScreenIdleTTL time.Duration
	// SessionIdleTTL is how long a client session may go unused before it is dropped
	SessionIdleTTL time.Duration
	ReapInterval   time.Duration
	// SeedFile overrides the embedded seed document
	SeedFile string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// AuthConfig holds identity provider settings
type AuthConfig struct {
	// Enabled turns on the postgres-backed identity provider. When false the
	// server keeps accounts in memory for the process lifetime.
	Enabled bool
	// SignInRate is the sustained number of sign-in attempts allowed per email
	SignInRate float64
	// SignInBurst is the number of attempts allowed before throttling kicks in
	SignInBurst       int
	MinPasswordLength int
	// SignUpEnabled allows new email/password accounts
	SignUpEnabled bool
}

// MediaConfig holds file picker, share sheet and export settings
type MediaConfig struct {
	PickDir   string
	ShareDir  string
	ExportDir string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:   getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxMountedScreens: getIntEnv("MAX_MOUNTED_SCREENS", 1024),
			ScreenIdleTTL:     getDurationEnv("SCREEN_IDLE_TTL", 30*time.Minute),
			SessionIdleTTL:    getDurationEnv("SESSION_IDLE_TTL", 12*time.Hour),
			ReapInterval:      getDurationEnv("SCREEN_REAP_INTERVAL", time.Minute),
			SeedFile:          getEnv("SEED_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "wedding_planner"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Auth: AuthConfig{
			Enabled:           getBoolEnv("AUTH_ENABLED", false),
			SignInRate:        getFloatEnv("AUTH_SIGNIN_RATE", 0.2),
			SignInBurst:       getIntEnv("AUTH_SIGNIN_BURST", 5),
			MinPasswordLength: getIntEnv("AUTH_MIN_PASSWORD_LENGTH", 6),
			SignUpEnabled:     getBoolEnv("AUTH_SIGNUP_ENABLED", true),
		},
		Media: MediaConfig{
			PickDir:   getEnv("MEDIA_DIR", "./data/media"),
			ShareDir:  getEnv("SHARE_DIR", ""),
			ExportDir: getEnv("EXPORT_DIR", "./data/exports"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Auth.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when AUTH_ENABLED is set")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when AUTH_ENABLED is set")
		}
	}
	if c.Auth.SignInRate <= 0 {
		return fmt.Errorf("AUTH_SIGNIN_RATE must be positive")
	}
	if c.Auth.SignInBurst < 1 {
		return fmt.Errorf("AUTH_SIGNIN_BURST must be at least 1")
	}
	if c.Server.MaxMountedScreens < 1 {
		return fmt.Errorf("MAX_MOUNTED_SCREENS must be at least 1")
	}
	if c.Server.ReapInterval <= 0 {
		return fmt.Errorf("SCREEN_REAP_INTERVAL must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
