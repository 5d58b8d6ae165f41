package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/internal/gateway"
	"github.com/roadshop/checkout-backend/internal/handler"
	"github.com/roadshop/checkout-backend/internal/routes"
	"github.com/roadshop/checkout-backend/internal/service"
)

const catalogYAML = `
methods:
  - id: transfer
    category: KRW
    detail:
      type: transfer
      amount:
        krw: 130000
      accounts:
        - bank: kookmin
          number: "123-456-789"
          holder: Roadshop
  - id: toss
    category: KRW
    deepLinkProvider: toss
    detail:
      type: toss
      amount:
        krw: 130000
      account:
        bank: kookmin
        number: "123-456-789"
        holder: Roadshop
  - id: paypal
    category: GLOBAL
    detail:
      type: url
      url:
        USD: https://pay.example.com/paypal/usd
`

func newTestRouter(t *testing.T, secretKey, stripeURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogPath := filepath.Join(t.TempDir(), "payment-methods.yaml")
	if err := os.WriteFile(catalogPath, []byte(catalogYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	methods, err := service.NewMethodService(catalogPath, nil)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	gw := gateway.NewStripeGateway(&gateway.StripeConfig{
		PublishableKey: "pk_test_x",
		SecretKey:      secretKey,
		BaseURL:        stripeURL,
	})
	intents := service.NewIntentService(nil, gw, nil, map[string]float64{"KRW": 130000, "USD": 12000})

	router := gin.New()
	routes.Setup(router, handler.NewConfigHandler(methods, intents), handler.NewIntentHandler(intents))
	return router
}

func stripeOK(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"pi_9","client_secret":"pi_9_secret","status":"requires_payment_method","amount":130000,"currency":"krw"}`))
	}))
}

func TestGetMethodCatalog(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-methods.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var catalog domain.MethodCatalog
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Methods, 3)
}

func TestGetMethodDetailDocument(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/method-toss.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var detail domain.MethodDetail
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, domain.DetailToss, detail.Type)
	assert.Equal(t, "kookmin", detail.Toss.Account.Bank)
}

func TestUnknownMethodDetailIs404(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/method-bitcoin.json", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateIntent(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	body := strings.NewReader(`{"currency":"KRW"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/payment-intents", body))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.CreateIntentResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pi_9_secret", resp.ClientSecret)
	assert.Equal(t, "pk_test_x", resp.PublishableKey)
	assert.False(t, resp.IsMock)
}

func TestCreateIntentLegacyAlias(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	body := strings.NewReader(`{"currency":"USD"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/payments/create-intent", body))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateIntentMissingCurrency(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	body := strings.NewReader(`{}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/payment-intents", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errBody struct {
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "currency is required", errBody.Message, "frontend reads the top-level message field")
}

func TestCreateIntentWithoutSecretKey(t *testing.T) {
	router := newTestRouter(t, "", "http://unused.invalid")

	body := strings.NewReader(`{"currency":"KRW"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/payment-intents", body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTestPaymentIntentDocument(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test-payment-intent.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var doc map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc["clientSecret"])
	assert.Equal(t, "pk_test_x", doc["publishableKey"])
}

func TestHealthEndpoint(t *testing.T) {
	server := stripeOK(t)
	defer server.Close()
	router := newTestRouter(t, "sk_test_x", server.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
