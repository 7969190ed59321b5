package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
api:
  environment: production
  port: "9000"
upstream:
  base_url: https://tender.example.com/api
  timeout: 5s
session:
  driver: database
  secret: 0123456789abcdef0123456789abcdef
database:
  dialect: mysql
  host: db
  port: "3306"
  user: dash
  password: pw
  name: tender
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "production", conf.API.Environment)
	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, 5*time.Second, conf.Upstream.Timeout)
	assert.Equal(t, int64(20), conf.Upstream.MaxUploadMB)
	assert.Equal(t, SessionDriverDatabase, conf.Session.Driver)
	assert.Equal(t, 5*time.Minute, conf.Confirmation.TTL)
	assert.Equal(t, "dash:pw@tcp(db:3306)/tender?charset=utf8mb4&parseTime=True&loc=UTC", conf.Database.DSN())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_UPSTREAM_BASE_URL", "http://override:4000")
	t.Setenv("APP_API_PORT", "7000")

	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "http://override:4000", conf.Upstream.BaseURL)
	assert.Equal(t, "7000", conf.API.Port)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("APP_UPSTREAM_BASE_URL", "http://tender:8000/api")
	t.Setenv("APP_SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_DATABASE_HOST", "db")

	conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "http://tender:8000/api", conf.Upstream.BaseURL)
	assert.Equal(t, SessionDriverCookie, conf.Session.Driver)
	assert.Equal(t, "db", conf.Database.Host)
	assert.Equal(t, "8080", conf.API.Port)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	_, err := Load(writeConfig(t, "upstream: [unterminated"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing upstream", "session:\n  secret: 0123456789abcdef0123456789abcdef\n"},
		{"short secret", "upstream:\n  base_url: http://x\nsession:\n  secret: short\n"},
		{"unknown driver", "upstream:\n  base_url: http://x\nsession:\n  driver: redis\n  secret: 0123456789abcdef0123456789abcdef\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	c := &DatabaseConfig{Dialect: "postgres", Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())

	c.URL = "postgres://u:p@h/n"
	assert.Equal(t, "postgres://u:p@h/n", c.DSN())
}
