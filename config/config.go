package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the runtime settings of the storefront
type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	Mongo struct {
		URI      string `koanf:"uri"`
		Database string `koanf:"database"`
	} `koanf:"mongo"`

	Redis struct {
		Addr     string        `koanf:"addr"`
		Password string        `koanf:"password"`
		CartTTL  time.Duration `koanf:"cart_ttl"`
	} `koanf:"redis"`

	Rabbit struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`

	Email struct {
		Provider string `koanf:"provider"`
		APIKey   string `koanf:"api_key"`
		Sender   string `koanf:"sender"`
		Admin    string `koanf:"admin"`
		BaseURL  string `koanf:"base_url"`
	} `koanf:"email"`

	Geo struct {
		URL     string        `koanf:"url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"geo"`

	Checkout struct {
		PaymentDelay   time.Duration `koanf:"payment_delay"`
		IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
	} `koanf:"checkout"`
}

func defaults() Config {
	var c Config
	c.App.Name = "go-storefront"
	c.App.HTTPAddr = ":8000"
	c.App.LogLevel = "info"
	c.App.LogFile = "./logs/storefront.log"
	c.Mongo.URI = "mongodb://localhost:27017"
	c.Mongo.Database = "storefront"
	c.Redis.CartTTL = 30 * 24 * time.Hour
	c.Rabbit.Exchange = "storefront.events"
	c.Security.TTL = 24 * time.Hour
	c.Email.Provider = "sendgrid"
	c.Email.BaseURL = "http://localhost:8000"
	c.Geo.URL = "https://ipapi.co"
	c.Geo.Timeout = 5 * time.Second
	c.Checkout.PaymentDelay = 1500 * time.Millisecond
	c.Checkout.IdempotencyTTL = 24 * time.Hour
	return c
}

// Load reads .env, then the optional YAML file at path, then STOREFRONT_
// environment variables (nested keys joined with __), in that order of
// precedence from lowest to highest.
func Load(path string) (Config, error) {
	// .env is optional, the process environment wins over it
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	// e.g. STOREFRONT_MONGO__URI, STOREFRONT_EMAIL__API_KEY
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.applyLegacyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyLegacyEnv honours the flat variable names used by earlier deployments.
func (c *Config) applyLegacyEnv() {
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STOREFRONT_APP__HTTP_ADDR") == "" {
		c.App.HTTPAddr = ":" + port
	}
	fallback(&c.Security.JWTSecret, "JWT_SECRET")
	fallback(&c.Mongo.URI, "MONGO_URI")
	fallback(&c.Email.Sender, "EMAIL_SENDER")
	fallback(&c.Email.Admin, "ADMIN_EMAIL")
	switch c.Email.Provider {
	case "postmark":
		fallback(&c.Email.APIKey, "POSTMARK_API_TOKEN")
	default:
		fallback(&c.Email.APIKey, "SENDGRID_API_KEY")
	}
}

func fallback(dst *string, key string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Email.Provider != "sendgrid" && c.Email.Provider != "postmark" {
		return fmt.Errorf("email.provider must be sendgrid or postmark, got %q", c.Email.Provider)
	}
	if c.Geo.Timeout <= 0 {
		return fmt.Errorf("geo.timeout must be positive")
	}
	return nil
}
