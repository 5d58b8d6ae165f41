package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the checkout backend
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Payments PaymentsConfig `yaml:"payments"`
	CORS     CORSConfig     `yaml:"cors"`
}

// AppConfig server-level settings
type AppConfig struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`
}

// DatabaseConfig MySQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// StripeConfig Stripe gateway settings.
// Keys resolve from the key file first, then environment variables.
type StripeConfig struct {
	KeysPath       string `yaml:"keys_path"`
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
	APIBase        string `yaml:"api_base"`
}

// PaymentsConfig payment method catalog settings
type PaymentsConfig struct {
	MethodsPath string `yaml:"methods_path"`

	// DefaultAmounts maps an uppercase currency code to the amount
	// charged when an intent request carries none
	DefaultAmounts map[string]float64 `yaml:"default_amounts"`
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads the YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Env:  "local",
			Port: 5174,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		Stripe: StripeConfig{
			KeysPath: "stripe-keys.json",
			APIBase:  "https://api.stripe.com",
		},
		Payments: PaymentsConfig{
			MethodsPath: "configs/payment-methods.yaml",
			DefaultAmounts: map[string]float64{
				"KRW": 130000,
				"USD": 12000,
				"EUR": 11000,
				"CNY": 85000,
				"JPY": 150000,
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = port
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("STRIPE_KEYS_PATH"); v != "" {
		cfg.Stripe.KeysPath = v
	}
	if v := os.Getenv("STRIPE_PUBLISHABLE_KEY"); v != "" {
		cfg.Stripe.PublishableKey = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Stripe.SecretKey = v
	}
	if v := os.Getenv("PAYMENT_METHODS_PATH"); v != "" {
		cfg.Payments.MethodsPath = v
	}
}

// DSN builds a MySQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}
