package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  env: local\n"))
	assert.NoError(t, err)

	assert.Equal(t, 5174, cfg.App.Port)
	assert.Equal(t, "stripe-keys.json", cfg.Stripe.KeysPath)
	assert.Equal(t, "https://api.stripe.com", cfg.Stripe.APIBase)
	assert.Equal(t, 130000.0, cfg.Payments.DefaultAmounts["KRW"])
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFileValuesWin(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  env: production
  port: 8080
payments:
  methods_path: /etc/checkout/methods.yaml
`))
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "/etc/checkout/methods.yaml", cfg.Payments.MethodsPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STRIPE_SECRET_KEY", "sk_env_1")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg, err := Load(writeConfig(t, "app:\n  port: 8080\n"))
	assert.NoError(t, err)
	assert.Equal(t, 9999, cfg.App.Port, "environment beats the file")
	assert.Equal(t, "sk_env_1", cfg.Stripe.SecretKey)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db.local", Port: 3306, User: "checkout", Password: "pw", Name: "checkout"}
	assert.Equal(t, "checkout:pw@tcp(db.local:3306)/checkout?charset=utf8mb4&parseTime=True&loc=Local", d.DSN())
}
