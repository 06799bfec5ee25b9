package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StateSQLite = "sqlite"
	StateRedis  = "redis"
	StateMemory = "memory"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8081"`
	TemplateDir string `envconfig:"TEMPLATE_DIR" default:"./web/templates"`
	StaticDir   string `envconfig:"STATIC_DIR" default:"./web/static"`

	ProductAPIURL     string        `envconfig:"PRODUCT_API_URL" default:"http://localhost:3000"`
	ProductAPITimeout time.Duration `envconfig:"PRODUCT_API_TIMEOUT" default:"10s"`

	StateDriver string        `envconfig:"STATE_DRIVER" default:"sqlite"`
	DBDSN       string        `envconfig:"DB_DSN" default:"storefront.db"`
	RedisAddr   string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB     int           `envconfig:"REDIS_DB" default:"0"`
	StateTTL    time.Duration `envconfig:"STATE_TTL" default:"720h"`

	// bcrypt hash of the admin access code.
	AdminCodeHash string `envconfig:"ADMIN_CODE_HASH"`

	LogFile  string `envconfig:"LOG_FILE" default:"./storefront.log"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// APIConfig configures the local product API that stands in for the remote backend.
type APIConfig struct {
	Port    string `envconfig:"API_PORT" default:"3000"`
	DBDSN   string `envconfig:"API_DB_DSN" default:"productapi.db"`
	LogFile string `envconfig:"LOG_FILE" default:""`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.StateDriver = strings.ToLower(strings.TrimSpace(cfg.StateDriver))
	switch cfg.StateDriver {
	case StateSQLite, StateRedis, StateMemory:
	default:
		return Config{}, fmt.Errorf("unknown STATE_DRIVER %q", cfg.StateDriver)
	}
	cfg.ProductAPIURL = strings.TrimRight(strings.TrimSpace(cfg.ProductAPIURL), "/")
	if cfg.ProductAPIURL == "" {
		return Config{}, fmt.Errorf("PRODUCT_API_URL is required")
	}

	log.Printf("[config] PORT=%s PRODUCT_API_URL=%s STATE_DRIVER=%s DB_DSN=%s LOG_FILE=%s",
		cfg.Port, cfg.ProductAPIURL, cfg.StateDriver, cfg.DBDSN, cfg.LogFile)
	return cfg, nil
}

func LoadAPI() (APIConfig, error) {
	var cfg APIConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return APIConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	log.Printf("[config] API_PORT=%s API_DB_DSN=%s", cfg.Port, cfg.DBDSN)
	return cfg, nil
}
