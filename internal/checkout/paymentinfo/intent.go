package paymentinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// testIntentDoc is the static mock response served from the info base URL,
// used when the Stripe backend is unreachable.
const testIntentDoc = "test-payment-intent.json"

// CreatePaymentIntent asks the backend for a Stripe payment intent.
// On network failure or a non-2xx response it falls back to the static
// test-response document from the info base URL, so a broken backend
// degrades to a mock checkout instead of a dead one.
func (p *Provider) CreatePaymentIntent(ctx context.Context, currency string, amount *float64) (*domain.CreateIntentResponse, error) {
	payload, err := json.Marshal(domain.CreateIntentRequest{Currency: currency, Amount: amount})
	if err != nil {
		return nil, err
	}

	resp, err := p.postIntent(ctx, payload)
	if err == nil {
		return resp, nil
	}

	logger.Warn("falling back to mock payment intent response: %v", err)

	var fallback domain.CreateIntentResponse
	if ferr := p.getJSON(ctx, testIntentDoc, &fallback); ferr != nil {
		return nil, fmt.Errorf("load payment intent fallback: %w", ferr)
	}
	fallback.IsMock = true
	return &fallback, nil
}

func (p *Provider) postIntent(ctx context.Context, payload []byte) (*domain.CreateIntentResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.intentEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("stripe backend responded with %d", resp.StatusCode)
	}

	var out domain.CreateIntentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
