package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/roadshop/checkout-backend/internal/common"
	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/internal/gateway"
	"github.com/roadshop/checkout-backend/internal/repository"
	"github.com/roadshop/checkout-backend/pkg/cache"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// fallbackAmount is used when no default is configured for a currency
const fallbackAmount = 12000

// IntentService creates payment intents through the gateway, records
// them, and replays responses for repeated request ids.
//
// The repository and cache are optional; without them the service still
// creates intents, it just loses idempotent replay and the audit trail.
type IntentService struct {
	repo     *repository.IntentRepository
	gateway  *gateway.StripeGateway
	cacheSvc cache.Service
	defaults map[string]float64
}

// NewIntentService creates the intent service. defaults maps an
// uppercase currency code to the amount charged when the request
// carries none.
func NewIntentService(repo *repository.IntentRepository, gw *gateway.StripeGateway, cacheSvc cache.Service, defaults map[string]float64) *IntentService {
	return &IntentService{repo: repo, gateway: gw, cacheSvc: cacheSvc, defaults: defaults}
}

// DefaultAmount returns the amount charged for a currency when the
// request does not specify one
func (s *IntentService) DefaultAmount(currency string) float64 {
	if amount, ok := s.defaults[strings.ToUpper(currency)]; ok {
		return amount
	}
	return fallbackAmount
}

// CreateIntent validates the request, creates a gateway intent and
// persists the outcome. An empty requestID gets a generated one, so
// only clients that send X-Request-ID take part in idempotent replay.
func (s *IntentService) CreateIntent(ctx context.Context, req domain.CreateIntentRequest, requestID, clientIP string) (*domain.CreateIntentResponse, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return nil, common.ErrCurrencyRequired
	}

	replayable := requestID != ""
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if replayable {
		if resp := s.cachedResponse(ctx, requestID); resp != nil {
			return resp, nil
		}
	}

	amount := s.DefaultAmount(currency)
	if req.Amount != nil && *req.Amount > 0 {
		amount = math.Round(*req.Amount)
	}

	result, err := s.gateway.CreatePaymentIntent(ctx, currency, amount)
	if err != nil {
		s.record(ctx, &domain.PaymentIntent{
			RequestID:  requestID,
			Currency:   currency,
			Amount:     int64(amount),
			Status:     "failed",
			FailReason: err.Error(),
			ClientIP:   clientIP,
		})
		return nil, err
	}

	s.record(ctx, &domain.PaymentIntent{
		RequestID:  requestID,
		ExternalID: result.ID,
		Currency:   currency,
		Amount:     result.Amount,
		Status:     "created",
		ClientIP:   clientIP,
	})

	resp := &domain.CreateIntentResponse{
		ClientSecret:   result.ClientSecret,
		PublishableKey: s.gateway.PublishableKey(),
	}

	if replayable {
		s.storeResponse(ctx, requestID, resp)
	}
	return resp, nil
}

// PublishableKey exposes the frontend key for the config endpoint
func (s *IntentService) PublishableKey() string {
	return s.gateway.PublishableKey()
}

func (s *IntentService) cachedResponse(ctx context.Context, requestID string) *domain.CreateIntentResponse {
	if s.cacheSvc == nil || !s.cacheSvc.IsAvailable() {
		return nil
	}

	data, err := s.cacheSvc.GetIntentResponse(ctx, requestID)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Debug("intent replay cache read: %v", err)
		}
		return nil
	}

	var resp domain.CreateIntentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn("corrupt cached intent response for %s: %v", requestID, err)
		return nil
	}
	return &resp
}

func (s *IntentService) storeResponse(ctx context.Context, requestID string, resp *domain.CreateIntentResponse) {
	if s.cacheSvc == nil || !s.cacheSvc.IsAvailable() {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cacheSvc.SetIntentResponse(ctx, requestID, data); err != nil {
		logger.Debug("intent replay cache write: %v", err)
	}
}

func (s *IntentService) record(ctx context.Context, intent *domain.PaymentIntent) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, intent); err != nil {
		logger.Warn("record payment intent %s: %v", intent.RequestID, err)
	}
}
