package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-key"

// Config holds everything the server needs at startup.
// Values come from an optional TOML file, then environment variables win.
type Config struct {
	Env         string   `toml:"env"`
	Port        string   `toml:"port"`
	FrontendURL string   `toml:"frontend_url"`
	CORSOrigins []string `toml:"cors_origins"`
	LogLevel    string   `toml:"log_level"`

	Mongo MongoConfig `toml:"mongo"`
	Redis RedisConfig `toml:"redis"`
	JWT   JWTConfig   `toml:"jwt"`
	SMTP  SMTPConfig  `toml:"smtp"`
	Admin AdminConfig `toml:"admin"`
}

type MongoConfig struct {
	URI         string `toml:"uri"`
	Database    string `toml:"database"`
	MaxPoolSize uint64 `toml:"max_pool_size"`
	MinPoolSize uint64 `toml:"min_pool_size"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type JWTConfig struct {
	Secret        string `toml:"secret"`
	Expiry        string `toml:"expiry"`
	RefreshExpiry string `toml:"refresh_expiry"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

type AdminConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

// DefaultConfig returns development defaults
func DefaultConfig() *Config {
	return &Config{
		Env:         "development",
		Port:        "8080",
		FrontendURL: "http://localhost:5000",
		CORSOrigins: []string{"http://localhost:5000", "http://localhost:3000"},
		LogLevel:    "info",
		Mongo: MongoConfig{
			URI:         "mongodb://localhost:27017",
			Database:    "vastu_db",
			MaxPoolSize: 10,
			MinPoolSize: 2,
		},
		JWT: JWTConfig{
			Secret:        devJWTSecret,
			Expiry:        "24h",
			RefreshExpiry: "168h",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Admin: AdminConfig{
			Email: "admin@example.com",
		},
	}
}

// Load reads .env, the optional TOML file at path, and then the environment
func Load(path string) (*Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		GetLogger().Debug(".env file not found")
	}

	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	envString("ENV", &cfg.Env)
	envString("PORT", &cfg.Port)
	envString("FRONTEND_URL", &cfg.FrontendURL)
	envString("LOG_LEVEL", &cfg.LogLevel)
	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	// check both MONGO_URI and MONGODB_URI
	envString("MONGODB_URI", &cfg.Mongo.URI)
	envString("MONGO_URI", &cfg.Mongo.URI)
	envString("DB_NAME", &cfg.Mongo.Database)
	envUint("DB_MAX_POOL_SIZE", &cfg.Mongo.MaxPoolSize)
	envUint("DB_MIN_POOL_SIZE", &cfg.Mongo.MinPoolSize)

	envString("REDIS_ADDR", &cfg.Redis.Addr)
	envString("REDIS_PASSWORD", &cfg.Redis.Password)
	envInt("REDIS_DB", &cfg.Redis.DB)

	envString("JWT_SECRET", &cfg.JWT.Secret)
	envString("JWT_EXPIRY", &cfg.JWT.Expiry)
	envString("JWT_REFRESH_EXPIRY", &cfg.JWT.RefreshExpiry)

	envString("SMTP_HOST", &cfg.SMTP.Host)
	envInt("SMTP_PORT", &cfg.SMTP.Port)
	envString("SMTP_USER", &cfg.SMTP.User)
	envString("SMTP_PASS", &cfg.SMTP.Password)
	envString("SENDER_EMAIL", &cfg.SMTP.From)

	envString("ADMIN_EMAIL", &cfg.Admin.Email)
	envString("ADMIN_PASSWORD", &cfg.Admin.Password)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot run in production
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.JWT.Expiry); err != nil {
		return fmt.Errorf("invalid jwt expiry %q: %w", c.JWT.Expiry, err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiry); err != nil {
		return fmt.Errorf("invalid jwt refresh expiry %q: %w", c.JWT.RefreshExpiry, err)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.IsProduction() {
		if c.JWT.Secret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.Mongo.URI == DefaultConfig().Mongo.URI {
			return fmt.Errorf("MONGO_URI or MONGODB_URI is required in production")
		}
	}
	return nil
}

// IsProduction reports whether the server runs with production guards
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// TokenTTL returns the parsed access and refresh token lifetimes
func (c *Config) TokenTTL() (time.Duration, time.Duration) {
	access, _ := time.ParseDuration(c.JWT.Expiry)
	refresh, _ := time.ParseDuration(c.JWT.RefreshExpiry)
	return access, refresh
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envUint(key string, dst *uint64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
