// Package paymentinfo loads and caches per-method payment data from the
// checkout backend.
package paymentinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/roadshop/checkout-backend/internal/common"
	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// Provider fetches method details on demand and caches them for the
// session. Concurrent EnsureMethodInfo calls for the same id share one
// underlying request. Details are never evicted.
type Provider struct {
	baseURL        string
	intentEndpoint string
	client         *http.Client

	mu      sync.Mutex
	details map[string]*domain.MethodDetail
	errs    map[string]string
	pending map[string]*fetchCall

	catalog     []domain.PaymentMethod
	catalogCall *fetchCall
}

// fetchCall is an in-flight request shared by concurrent callers
type fetchCall struct {
	done chan struct{}
	ok   bool
}

// Option configures a Provider
type Option func(*Provider)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithIntentEndpoint overrides the payment-intent endpoint.
// Defaults to <base>/api/payment-intents.
func WithIntentEndpoint(endpoint string) Option {
	return func(p *Provider) { p.intentEndpoint = endpoint }
}

// NewProvider creates a provider over the given info base URL
func NewProvider(baseURL string, opts ...Option) *Provider {
	p := &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		details: make(map[string]*domain.MethodDetail),
		errs:    make(map[string]string),
		pending: make(map[string]*fetchCall),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.intentEndpoint == "" {
		p.intentEndpoint = p.baseURL + "/api/payment-intents"
	}
	return p
}

// EnsureMethodInfo loads the detail for the given method id once.
// Repeat calls return the cached success state; concurrent calls for an
// unfetched id share a single request. A fetch failure records an error
// for the id and leaves its detail unset, returning false.
func (p *Provider) EnsureMethodInfo(ctx context.Context, methodID string) bool {
	p.mu.Lock()
	if _, ok := p.details[methodID]; ok {
		p.mu.Unlock()
		return true
	}
	if call, ok := p.pending[methodID]; ok {
		p.mu.Unlock()
		<-call.done
		return call.ok
	}

	call := &fetchCall{done: make(chan struct{})}
	p.pending[methodID] = call
	p.mu.Unlock()

	call.ok = p.fetchDetail(ctx, methodID)

	p.mu.Lock()
	delete(p.pending, methodID)
	p.mu.Unlock()
	close(call.done)

	return call.ok
}

func (p *Provider) fetchDetail(ctx context.Context, methodID string) bool {
	var detail domain.MethodDetail
	err := p.getJSON(ctx, fmt.Sprintf("method-%s.json", methodID), &detail)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		delete(p.details, methodID)
		p.errs[methodID] = err.Error()
		l := logger.WithMethodID(methodID)
		l.Warn().Err(err).Msg("payment info fetch failed")
		return false
	}

	p.details[methodID] = &detail
	delete(p.errs, methodID)
	return true
}

// AvailableMethods fetches the method catalog, once per session.
// Concurrent callers share a single request.
func (p *Provider) AvailableMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	p.mu.Lock()
	if p.catalog != nil {
		methods := p.catalog
		p.mu.Unlock()
		return methods, nil
	}
	if call := p.catalogCall; call != nil {
		p.mu.Unlock()
		<-call.done
		if !call.ok {
			return nil, common.ErrFetchFailure
		}
		p.mu.Lock()
		methods := p.catalog
		p.mu.Unlock()
		return methods, nil
	}

	call := &fetchCall{done: make(chan struct{})}
	p.catalogCall = call
	p.mu.Unlock()

	var doc domain.MethodCatalog
	err := p.getJSON(ctx, "payment-methods.json", &doc)

	p.mu.Lock()
	if err == nil {
		p.catalog = doc.Methods
		call.ok = true
	}
	p.catalogCall = nil
	p.mu.Unlock()
	close(call.done)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailure, err)
	}
	return doc.Methods, nil
}

// MethodDetail returns the cached detail for a method id, or nil
func (p *Provider) MethodDetail(methodID string) *domain.MethodDetail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.details[methodID]
}

// DeepLinkDetail returns the cached detail backing a deep-link provider
func (p *Provider) DeepLinkDetail(provider domain.DeepLinkProvider) *domain.MethodDetail {
	switch provider {
	case domain.DeepLinkToss, domain.DeepLinkKakao:
		return p.MethodDetail(string(provider))
	default:
		return nil
	}
}

// MethodURL returns the URL for a method and currency. The currency is
// matched case-insensitively; when absent, the lexicographically first
// entry is used so the fallback is deterministic.
func (p *Provider) MethodURL(methodID, currency string) string {
	detail := p.MethodDetail(methodID)
	if detail == nil || detail.Type != domain.DetailURL || detail.URL == nil || len(detail.URL.URL) == 0 {
		return ""
	}

	urls := detail.URL.URL
	if currency != "" {
		if u, ok := urls[strings.ToUpper(currency)]; ok {
			return u
		}
	}

	currencies := make([]string, 0, len(urls))
	for c := range urls {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	return urls[currencies[0]]
}

// ErrorFor returns the recorded fetch error for a method id, if any
func (p *Provider) ErrorFor(methodID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs[methodID]
}

// IsLoading reports whether a fetch for the method id is in flight
func (p *Provider) IsLoading(methodID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[methodID]
	return ok
}

func (p *Provider) getJSON(ctx context.Context, path string, dest interface{}) error {
	url := p.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s responded with %d", common.ErrFetchFailure, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFetchFailure, err)
	}
	return json.Unmarshal(body, dest)
}
