package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	ConfigFileEnv, "APP_ENV", "GIN_MODE", "ADDR",
	"DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"TOKEN_SECRET", "TOKEN_TTL", "SESSION_SECRET", "SESSION_STORE", "REDIS_HOST", "REDIS_PORT",
	"CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, SessionStoreCookie, cfg.SessionStore)
	assert.Equal(t, []string{"http://localhost", "http://localhost:8501"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TokenSecret)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", DriverMySQL)
	t.Setenv("TOKEN_TTL", "45m")
	t.Setenv("TOKEN_SECRET", "env-secret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 45*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "env-secret", cfg.TokenSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "tracker:tracker@tcp(localhost:3306)/project_tracker?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tracker.yaml")
	content := `
environment: staging
database:
  driver: sqlite
  name: tracker-test
token:
  secret: file-secret
  ttl: 10m
log:
  level: debug
  format: text
cors:
  origins:
    - https://tracker.example
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "tracker-test.db", cfg.DSN())
	assert.Equal(t, "file-secret", cfg.TokenSecret)
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "warn", cfg.LogLevel, "environment must win over the file")
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"https://tracker.example"}, cfg.CORSOrigins)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("TOKEN_TTL", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "invalid token ttl")
}

func TestDSN_DatabaseURLWins(t *testing.T) {
	cfg := &Config{DBDriver: DriverPostgres, DatabaseURL: "postgresql://u:p@db:5432/tracker"}
	assert.Equal(t, "postgresql://u:p@db:5432/tracker", cfg.DSN())

	cfg = &Config{DBDriver: DriverPostgres, DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "tracker", DBPort: "5432"}
	assert.Equal(t, "host=db user=u password=p dbname=tracker port=5432 sslmode=disable", cfg.DSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:  "development",
			DBDriver:     DriverSQLite,
			SessionStore: SessionStoreCookie,
			TokenTTL:     time.Minute,
			CORSOrigins:  []string{"http://localhost"},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.DBDriver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg = valid()
	cfg.SessionStore = "memcached"
	assert.ErrorContains(t, cfg.Validate(), "unsupported session store")

	cfg = valid()
	cfg.TokenTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "token ttl")

	cfg = valid()
	cfg.Environment = EnvProduction
	assert.ErrorContains(t, cfg.Validate(), "TOKEN_SECRET")

	cfg.TokenSecret = "prod-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CORSOrigins(t *testing.T) {
	cfg := &Config{
		Environment:  "development",
		DBDriver:     DriverSQLite,
		SessionStore: SessionStoreCookie,
		TokenTTL:     time.Minute,
	}

	for _, origins := range [][]string{nil, {"localhost:3000"}, {"https://app.example", "app.example"}} {
		cfg.CORSOrigins = origins
		assert.ErrorContains(t, cfg.Validate(), "invalid cors origins", "%v", origins)
	}

	for _, origins := range [][]string{{"*"}, {"http://localhost", "https://app.example"}} {
		cfg.CORSOrigins = origins
		assert.NoError(t, cfg.Validate(), "%v", origins)
	}
}

func TestLoad_EmptyCORSListFailsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", ",")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.CORSOrigins)
	assert.ErrorContains(t, cfg.Validate(), "invalid cors origins")
}
