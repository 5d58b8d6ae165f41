// Package service implements the checkout backend business logic.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roadshop/checkout-backend/internal/common"
	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/pkg/cache"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// catalogFile is the payment-methods.yaml document
type catalogFile struct {
	Methods []methodEntry `yaml:"methods"`
}

type methodEntry struct {
	ID                  string      `yaml:"id"`
	Category            string      `yaml:"category"`
	DeepLinkProvider    string      `yaml:"deepLinkProvider"`
	SupportedCurrencies []string    `yaml:"supportedCurrencies"`
	Detail              detailEntry `yaml:"detail"`
}

// detailEntry carries the per-type payload fields; which ones apply
// depends on Type
type detailEntry struct {
	Type         string            `yaml:"type"`
	Amount       amountEntry       `yaml:"amount"`
	Accounts     []accountEntry    `yaml:"accounts"`
	Account      *accountEntry     `yaml:"account"`
	PersonalCode string            `yaml:"personalCode"`
	URL          map[string]string `yaml:"url"`
}

type amountEntry struct {
	KRW float64 `yaml:"krw"`
}

type accountEntry struct {
	Bank   string `yaml:"bank"`
	Number string `yaml:"number"`
	Holder string `yaml:"holder"`
}

// MethodService serves the payment method catalog and per-method detail
// documents. The catalog is loaded from YAML at startup; serialized
// documents are cached in Redis so instances share one rendering.
type MethodService struct {
	path     string
	cacheSvc cache.Service

	mu      sync.RWMutex
	catalog domain.MethodCatalog
	details map[string]*domain.MethodDetail
}

// NewMethodService loads the catalog file and returns the service
func NewMethodService(path string, cacheSvc cache.Service) (*MethodService, error) {
	s := &MethodService{path: path, cacheSvc: cacheSvc}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the catalog file and invalidates cached documents
func (s *MethodService) Reload(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read method catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse method catalog: %w", err)
	}

	catalog := domain.MethodCatalog{}
	details := make(map[string]*domain.MethodDetail, len(file.Methods))

	for _, entry := range file.Methods {
		detail, err := entry.toDetail()
		if err != nil {
			return err
		}

		method := domain.PaymentMethod{
			ID:                  entry.ID,
			Category:            domain.MethodCategory(entry.Category),
			DeepLinkProvider:    domain.DeepLinkProvider(entry.DeepLinkProvider),
			SupportedCurrencies: entry.supportedCurrencies(detail),
		}
		catalog.Methods = append(catalog.Methods, method)
		details[entry.ID] = detail
	}

	s.mu.Lock()
	s.catalog = catalog
	s.details = details
	s.mu.Unlock()

	s.invalidateCached(ctx, catalog)
	return nil
}

// Catalog returns the loaded catalog
func (s *MethodService) Catalog() domain.MethodCatalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Detail returns the parsed detail for one method
func (s *MethodService) Detail(methodID string) (*domain.MethodDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detail, ok := s.details[methodID]
	if !ok {
		return nil, common.ErrMethodNotFound
	}
	return detail, nil
}

// CatalogJSON renders the catalog document, cache-aside
func (s *MethodService) CatalogJSON(ctx context.Context) ([]byte, error) {
	if s.cacheAvailable() {
		var cached json.RawMessage
		if err := s.cacheSvc.Get(ctx, cache.PrefixCatalog+"all", &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Debug("catalog cache read: %v", err)
		}
	}

	data, err := json.Marshal(s.Catalog())
	if err != nil {
		return nil, err
	}

	if s.cacheAvailable() {
		if err := s.cacheSvc.Set(ctx, cache.PrefixCatalog+"all", json.RawMessage(data), cache.TTLMethodDoc); err != nil {
			logger.Debug("catalog cache write: %v", err)
		}
	}
	return data, nil
}

// DetailJSON renders one method's detail document, cache-aside
func (s *MethodService) DetailJSON(ctx context.Context, methodID string) ([]byte, error) {
	if s.cacheAvailable() {
		if data, err := s.cacheSvc.GetMethodDoc(ctx, methodID); err == nil {
			return data, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Debug("method doc cache read: %v", err)
		}
	}

	detail, err := s.Detail(methodID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(detail)
	if err != nil {
		return nil, err
	}

	if s.cacheAvailable() {
		if err := s.cacheSvc.SetMethodDoc(ctx, methodID, data); err != nil {
			logger.Debug("method doc cache write: %v", err)
		}
	}
	return data, nil
}

func (s *MethodService) cacheAvailable() bool {
	return s.cacheSvc != nil && s.cacheSvc.IsAvailable()
}

func (s *MethodService) invalidateCached(ctx context.Context, catalog domain.MethodCatalog) {
	if !s.cacheAvailable() {
		return
	}
	keys := []string{cache.PrefixCatalog + "all"}
	_ = s.cacheSvc.Delete(ctx, keys...)
	for _, m := range catalog.Methods {
		_ = s.cacheSvc.InvalidateMethodDoc(ctx, m.ID)
	}
}

// supportedCurrencies derives the selectable currencies: URL methods
// expose the currencies they have URLs for, everything else is KRW-only.
// An explicit list in the file wins.
func (e methodEntry) supportedCurrencies(detail *domain.MethodDetail) []string {
	if len(e.SupportedCurrencies) > 0 {
		return e.SupportedCurrencies
	}
	if detail.Type == domain.DetailURL && len(detail.URL.URL) > 0 {
		currencies := make([]string, 0, len(detail.URL.URL))
		for currency := range detail.URL.URL {
			currencies = append(currencies, currency)
		}
		sort.Strings(currencies)
		return currencies
	}
	return []string{"KRW"}
}

func (e methodEntry) toDetail() (*domain.MethodDetail, error) {
	detail := &domain.MethodDetail{ID: e.ID, Type: domain.DetailType(e.Detail.Type)}

	switch detail.Type {
	case domain.DetailTransfer:
		accounts := make([]domain.TransferAccount, 0, len(e.Detail.Accounts))
		for _, a := range e.Detail.Accounts {
			accounts = append(accounts, domain.TransferAccount(a))
		}
		detail.Transfer = &domain.TransferInfo{
			Amount:   domain.Amount{KRW: e.Detail.Amount.KRW},
			Accounts: accounts,
		}
	case domain.DetailToss:
		if e.Detail.Account == nil {
			return nil, fmt.Errorf("method %s: toss detail requires an account", e.ID)
		}
		detail.Toss = &domain.TossInfo{
			Amount:  domain.Amount{KRW: e.Detail.Amount.KRW},
			Account: domain.TransferAccount(*e.Detail.Account),
		}
	case domain.DetailKakao:
		detail.Kakao = &domain.KakaoInfo{
			Amount:       domain.Amount{KRW: e.Detail.Amount.KRW},
			PersonalCode: e.Detail.PersonalCode,
		}
	case domain.DetailURL:
		for currency, raw := range e.Detail.URL {
			if err := common.ValidatePaymentURL(raw); err != nil {
				return nil, fmt.Errorf("method %s (%s): %w", e.ID, currency, err)
			}
		}
		detail.URL = &domain.URLInfo{URL: e.Detail.URL}
	default:
		return nil, fmt.Errorf("method %s: unsupported detail type %q", e.ID, e.Detail.Type)
	}

	return detail, nil
}
