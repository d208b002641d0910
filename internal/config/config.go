// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Log       LogConfig
	Superuser SuperuserConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
	APIPrefix    string
	CORSOrigins  []string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite database file, only used when Driver is sqlite.
	Path           string
	Debug          bool
	ConnectRetries int
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string
	Migrations bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// SuperuserConfig holds the credentials of the superuser created by the seed step.
type SuperuserConfig struct {
	Email    string
	Password string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
			APIPrefix:    strings.TrimRight(getEnv("API_PREFIX", "/api"), "/"),
			CORSOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "recipes"),
			Password:       getEnv("DB_PASSWORD", "recipes123"),
			DBName:         getEnv("DB_NAME", "recipes"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			Path:           getEnv("DB_PATH", "recipes.db"),
			Debug:          getEnvBool("DB_DEBUG", false),
			ConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 10),
		},
		App: AppConfig{
			Env:        getEnv("APP_ENV", "development"),
			Migrations: getEnvBool("MIGRATIONS", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		Superuser: SuperuserConfig{
			Email:    os.Getenv("SUPERUSER_EMAIL"),
			Password: os.Getenv("SUPERUSER_PASSWORD"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
