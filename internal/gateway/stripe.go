// Package gateway implements the outbound payment-gateway clients.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roadshop/checkout-backend/internal/common"
)

// StripeConfig holds the gateway credentials and endpoint
type StripeConfig struct {
	PublishableKey string // publishable key (frontend)
	SecretKey      string // secret key (server only)
	BaseURL        string // defaults to the live API host
}

// StripeGateway creates payment intents against the Stripe REST API
type StripeGateway struct {
	config     *StripeConfig
	httpClient *http.Client
}

// NewStripeGateway creates a gateway with a 30s request timeout
func NewStripeGateway(config *StripeConfig) *StripeGateway {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.stripe.com"
	}
	return &StripeGateway{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PublishableKey returns the key the frontend mounts Stripe elements with
func (g *StripeGateway) PublishableKey() string {
	return g.config.PublishableKey
}

// IsConfigured reports whether a secret key is available
func (g *StripeGateway) IsConfigured() bool {
	return g.config.SecretKey != ""
}

// PaymentIntentResult is the subset of the Stripe payment intent the
// checkout flow needs
type PaymentIntentResult struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// CreatePaymentIntent creates a payment intent for the given currency
// and amount. Amounts are already denominated in the currency's
// smallest unit (the configured defaults included), so they are posted
// to Stripe unchanged, rounded to an integer.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, currency string, amount float64) (*PaymentIntentResult, error) {
	if g.config.SecretKey == "" {
		return nil, common.ErrSecretKeyMissing
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(math.Round(amount)), 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")

	endpoint := g.config.BaseURL + "/v1/payment_intents"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+g.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIntentCreateFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp stripeErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s (%s)", common.ErrIntentCreateFailed, errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("%w: status %d", common.ErrIntentCreateFailed, resp.StatusCode)
	}

	var intent stripeIntentResponse
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return nil, err
	}

	return &PaymentIntentResult{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}

// stripeIntentResponse is the payment intent document returned by Stripe
type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// stripeErrorResponse is Stripe's error envelope
type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
