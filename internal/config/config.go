package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Supported session stores
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// EnvProduction is the environment name that enables strict validation.
const EnvProduction = "production"

// ConfigFileEnv names the environment variable holding the YAML config path.
const ConfigFileEnv = "TRACKER_CONFIG"

type Config struct {
	Environment string
	GinMode     string
	Addr        string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	TokenSecret string
	TokenTTL    time.Duration

	SessionSecret string
	SessionStore  string
	RedisHost     string
	RedisPort     string

	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// fileConfig mirrors the YAML layout of the optional config file.
type fileConfig struct {
	Environment string `yaml:"environment"`
	GinMode     string `yaml:"gin_mode"`
	Addr        string `yaml:"addr"`
	Database    struct {
		Driver   string `yaml:"driver"`
		URL      string `yaml:"url"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Token struct {
		Secret string `yaml:"secret"`
		TTL    string `yaml:"ttl"`
	} `yaml:"token"`
	Session struct {
		Secret string `yaml:"secret"`
		Store  string `yaml:"store"`
	} `yaml:"session"`
	Redis struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"redis"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

var defaultCORSOrigins = []string{"http://localhost", "http://localhost:8501"}

// Load builds the configuration from defaults, the optional YAML file at
// path (or $TRACKER_CONFIG when path is empty) and environment variables.
// Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}

	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	driver := getEnv("DB_DRIVER", orDefault(file.Database.Driver, DriverPostgres))

	cfg := &Config{
		Environment:   getEnv("APP_ENV", orDefault(file.Environment, "development")),
		GinMode:       getEnv("GIN_MODE", orDefault(file.GinMode, "debug")),
		Addr:          getEnv("ADDR", orDefault(file.Addr, ":8080")),
		DBDriver:      driver,
		DatabaseURL:   getEnv("DATABASE_URL", file.Database.URL),
		DBHost:        getEnv("DB_HOST", orDefault(file.Database.Host, "localhost")),
		DBPort:        getEnv("DB_PORT", orDefault(file.Database.Port, defaultPort(driver))),
		DBUser:        getEnv("DB_USER", orDefault(file.Database.User, "tracker")),
		DBPassword:    getEnv("DB_PASSWORD", orDefault(file.Database.Password, "tracker")),
		DBName:        getEnv("DB_NAME", orDefault(file.Database.Name, "project_tracker")),
		TokenSecret:   getEnv("TOKEN_SECRET", file.Token.Secret),
		SessionSecret: getEnv("SESSION_SECRET", orDefault(file.Session.Secret, "default-secret-key-change-me")),
		SessionStore:  getEnv("SESSION_STORE", orDefault(file.Session.Store, SessionStoreCookie)),
		RedisHost:     getEnv("REDIS_HOST", orDefault(file.Redis.Host, "localhost")),
		RedisPort:     getEnv("REDIS_PORT", orDefault(file.Redis.Port, "6379")),
		LogLevel:      getEnv("LOG_LEVEL", orDefault(file.Log.Level, "info")),
		LogFormat:     getEnv("LOG_FORMAT", orDefault(file.Log.Format, "json")),
	}

	ttl := getEnv("TOKEN_TTL", orDefault(file.Token.TTL, "30m"))
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid token ttl %q: %w", ttl, err)
	}
	cfg.TokenTTL = parsed

	switch {
	case os.Getenv("CORS_ORIGINS") != "":
		cfg.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	case len(file.CORS.Origins) > 0:
		cfg.CORSOrigins = file.CORS.Origins
	default:
		cfg.CORSOrigins = append([]string(nil), defaultCORSOrigins...)
	}

	return cfg, nil
}

// Validate reports configuration that the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store %q", c.SessionStore)
	}

	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.IsProduction() && c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is required in production")
	}

	// cors.New panics on a config it rejects.
	if err := c.CORS().Validate(); err != nil {
		return fmt.Errorf("invalid cors origins %q: %w", c.CORSOrigins, err)
	}
	return nil
}

// CORS returns the cross-origin policy for browser clients. Credentials are
// allowed so the session cookie travels with requests.
func (c *Config) CORS() cors.Config {
	return cors.Config{
		AllowOrigins:     c.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction || c.GinMode == "release"
}

// DSN returns the connection string for the configured driver.
// DATABASE_URL wins over the individual DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			c.DBPort,
			c.DBName,
		)
	case DriverSQLite:
		return c.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost,
			c.DBUser,
			c.DBPassword,
			c.DBName,
			c.DBPort,
		)
	}
}

// RedisAddr returns host:port of the session redis.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func defaultPort(driver string) string {
	if driver == DriverMySQL {
		return "3306"
	}
	return "5432"
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
