package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type CartConfig struct {
	CookieName string
	Secret     string
	MaxAgeDays int
}

type CheckoutConfig struct {
	Currency      string
	PricingPolicy string // "zero" or "flat"
	TaxRate       float64
	FlatShipping  float64
}

type PaymentConfig struct {
	Provider            string // "mock"
	ReconcileAfterHours int
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cartMaxAge, err := getEnvInt("CART_MAX_AGE_DAYS", 14)
	if err != nil {
		return nil, fmt.Errorf("invalid CART_MAX_AGE_DAYS: %w", err)
	}

	taxRate, err := getEnvFloat("CHECKOUT_TAX_RATE", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_TAX_RATE: %w", err)
	}

	flatShipping, err := getEnvFloat("CHECKOUT_FLAT_SHIPPING", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_FLAT_SHIPPING: %w", err)
	}

	reconcileAfter, err := getEnvInt("PAYMENT_RECONCILE_AFTER_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_RECONCILE_AFTER_HOURS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Cart: CartConfig{
			CookieName: getEnv("CART_COOKIE_NAME", "storefront_cart"),
			Secret:     getEnv("CART_SECRET", ""),
			MaxAgeDays: cartMaxAge,
		},
		Checkout: CheckoutConfig{
			Currency:      getEnv("CHECKOUT_CURRENCY", "USD"),
			PricingPolicy: getEnv("CHECKOUT_PRICING_POLICY", "zero"),
			TaxRate:       taxRate,
			FlatShipping:  flatShipping,
		},
		Payment: PaymentConfig{
			Provider:            getEnv("PAYMENT_PROVIDER", "mock"),
			ReconcileAfterHours: reconcileAfter,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Cart.Secret == "" {
		missing = append(missing, "CART_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
