package gateway

import (
	"encoding/json"
	"os"

	"github.com/roadshop/checkout-backend/pkg/logger"
)

// StripeKeys is the stripe-keys.json document kept outside version control
type StripeKeys struct {
	PublishableKey string `json:"publishableKey"`
	SecretKey      string `json:"secretKey"`
}

// LoadStripeKeys reads the key file and applies environment overrides.
// A missing or unreadable file is not an error; the server then runs in
// mock-fallback mode until keys are provided.
func LoadStripeKeys(path string) StripeKeys {
	var keys StripeKeys

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &keys); err != nil {
			logger.Warn("parse %s: %v", path, err)
		}
	} else {
		logger.Debug("stripe key file not found at %s", path)
	}

	if v := os.Getenv("STRIPE_PUBLISHABLE_KEY"); v != "" {
		keys.PublishableKey = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		keys.SecretKey = v
	}

	return keys
}
