package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "API_PREFIX", "CORS_ALLOWED_ORIGINS", "MIGRATIONS", "APP_ENV"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.App.Migrations)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("API_PREFIX", "/api/v1/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/api/v1", cfg.Server.APIPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.App.Migrations)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.True(t, cfg.App.IsProduction())
}

func TestDatabaseConfigStrings(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "recipes", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=recipes sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/recipes?sslmode=disable", d.URL())
}
