package paymentinfo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roadshop/checkout-backend/internal/domain"
)

func TestCreatePaymentIntentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payment-intents" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}

		var req domain.CreateIntentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Currency != "KRW" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(domain.CreateIntentResponse{
			ClientSecret:   "pi_123_secret_456",
			PublishableKey: "pk_test_789",
		})
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	resp, err := p.CreatePaymentIntent(context.Background(), "KRW", nil)
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}
	if resp.ClientSecret != "pi_123_secret_456" || resp.PublishableKey != "pk_test_789" {
		t.Errorf("response = %+v", resp)
	}
	if resp.IsMock {
		t.Error("live response must not be marked as mock")
	}
}

func TestCreatePaymentIntentFallsBackToMock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payment-intents":
			http.Error(w, "stripe down", http.StatusInternalServerError)
		case "/test-payment-intent.json":
			w.Write([]byte(`{"clientSecret": "pi_mock_secret", "publishableKey": "pk_mock", "message": "mock response"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	resp, err := p.CreatePaymentIntent(context.Background(), "USD", nil)
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}
	if !resp.IsMock {
		t.Error("fallback response must be marked as mock")
	}
	if resp.ClientSecret != "pi_mock_secret" {
		t.Errorf("fallback clientSecret = %q", resp.ClientSecret)
	}
}

func TestCreatePaymentIntentFallbackAlsoFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "everything is down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	if _, err := p.CreatePaymentIntent(context.Background(), "USD", nil); err == nil {
		t.Error("expected an error when both endpoint and fallback fail")
	}
}
