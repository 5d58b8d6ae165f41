// Package orchestrator holds the checkout interaction state machine: it
// sequences which workflow runs when a method or currency is selected
// and owns all dialog-visible state.
package orchestrator

import (
	"context"
	"sync"

	"github.com/roadshop/checkout-backend/internal/checkout/countdown"
	"github.com/roadshop/checkout-backend/internal/checkout/deeplink"
	"github.com/roadshop/checkout-backend/internal/checkout/workflow"
	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/pkg/i18n"
)

// InfoProvider is the slice of the payment info provider the
// orchestrator needs
type InfoProvider interface {
	EnsureMethodInfo(ctx context.Context, methodID string) bool
	DeepLinkDetail(provider domain.DeepLinkProvider) *domain.MethodDetail
	MethodURL(methodID, currency string) string
}

// Clipboard copies text on behalf of the user. Best-effort.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// URLOpener opens a URL in a new browsing context
type URLOpener interface {
	OpenNewTab(url string) error
}

// DeepLinkDialog is the content of the not-mobile / not-installed dialog.
// Exactly one dialog is visible at a time; opening a new one replaces it.
type DeepLinkDialog struct {
	Type         workflow.PopupType
	Provider     domain.DeepLinkProvider
	Title        string
	Message      string
	ConfirmLabel string
	DeepLinkURL  string
}

// State is a snapshot of all UI-visible orchestrator state
type State struct {
	SelectedMethodID     string
	SelectedCurrency     string
	CurrencySelectorOpen bool

	Dialog                *DeepLinkDialog
	TransferDialogVisible bool

	TossInstructionDialogVisible bool
	TossCountdown                int
	TossAccountCopied            bool
	TossDeepLinkURL              string

	DeepLinkChecking bool
}

// Config wires an Orchestrator
type Config struct {
	Methods   []domain.PaymentMethod
	Info      InfoProvider
	Launcher  *deeplink.Launcher
	Bundle    *i18n.Bundle
	Locale    i18n.Locale
	Clipboard Clipboard
	Opener    URLOpener
}

// Orchestrator drives the selection/interaction state machine.
//
// All state is guarded by mu because countdown ticks and launch
// callbacks arrive on timer goroutines while user events arrive on
// their own. Each accepted selection bumps a generation counter;
// callbacks from an abandoned workflow carry the old generation and are
// ignored, so a late "not installed" can never corrupt a newer
// selection's dialogs.
type Orchestrator struct {
	info      InfoProvider
	launcher  *deeplink.Launcher
	bundle    *i18n.Bundle
	locale    i18n.Locale
	clipboard Clipboard
	opener    URLOpener
	countdown *countdown.Manager
	resolver  *workflow.Resolver

	mu          sync.Mutex
	methodOrder []string
	methods     map[string]domain.PaymentMethod
	generation  uint64

	selectedMethodID     string
	selectedCurrency     string
	currencySelectorOpen bool

	dialog                *DeepLinkDialog
	transferDialogVisible bool

	tossDialogVisible bool
	tossCountdown     int
	tossCopied        bool
	tossDeepLinkURL   string

	checking    bool
	checkingGen uint64
}

// New creates an orchestrator over the given environment
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		info:      cfg.Info,
		launcher:  cfg.Launcher,
		bundle:    cfg.Bundle,
		locale:    cfg.Locale,
		clipboard: cfg.Clipboard,
		opener:    cfg.Opener,
		methods:   make(map[string]domain.PaymentMethod, len(cfg.Methods)),
	}
	for _, m := range cfg.Methods {
		if len(m.SupportedCurrencies) == 0 {
			m.SupportedCurrencies = []string{"KRW"}
		}
		o.methods[m.ID] = m
		o.methodOrder = append(o.methodOrder, m.ID)
	}
	o.countdown = countdown.New(func(remaining int) {
		o.mu.Lock()
		o.tossCountdown = remaining
		o.mu.Unlock()
	})
	o.resolver = workflow.NewResolver(o)
	return o
}

// Methods returns the catalog in display order
func (o *Orchestrator) Methods() []domain.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.PaymentMethod, 0, len(o.methodOrder))
	for _, id := range o.methodOrder {
		out = append(out, o.methods[id])
	}
	return out
}

// State returns a snapshot of the UI-visible state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := State{
		SelectedMethodID:             o.selectedMethodID,
		SelectedCurrency:             o.selectedCurrency,
		CurrencySelectorOpen:         o.currencySelectorOpen,
		TransferDialogVisible:        o.transferDialogVisible,
		TossInstructionDialogVisible: o.tossDialogVisible,
		TossCountdown:                o.tossCountdown,
		TossAccountCopied:            o.tossCopied,
		TossDeepLinkURL:              o.tossDeepLinkURL,
		DeepLinkChecking:             o.checking,
	}
	if o.dialog != nil {
		d := *o.dialog
		s.Dialog = &d
	}
	return s
}

// SelectMethod applies the selection state transition for a method id.
// A method with one supported currency auto-selects it; more than one
// opens the currency selector and leaves the currency undetermined.
// Unknown ids clear the selection.
func (o *Orchestrator) SelectMethod(methodID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selectMethodLocked(methodID)
}

func (o *Orchestrator) selectMethodLocked(methodID string) {
	method, ok := o.methods[methodID]
	if !ok {
		o.selectedMethodID = ""
		o.selectedCurrency = ""
		o.currencySelectorOpen = false
		return
	}

	o.selectedMethodID = methodID

	if len(method.SupportedCurrencies) <= 1 {
		o.selectedCurrency = method.SupportedCurrencies[0]
		o.currencySelectorOpen = false
		return
	}

	o.selectedCurrency = ""
	o.currencySelectorOpen = true
}

// ChooseCurrency applies the currency disambiguation transition.
// Currencies outside the selected method's supported list are ignored.
func (o *Orchestrator) ChooseCurrency(currency string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.chooseCurrencyLocked(currency)
}

func (o *Orchestrator) chooseCurrencyLocked(currency string) {
	method, ok := o.methods[o.selectedMethodID]
	if !ok || !supportsCurrency(method, currency) {
		return
	}
	o.selectedCurrency = currency
	o.currencySelectorOpen = false
}

func supportsCurrency(method domain.PaymentMethod, currency string) bool {
	for _, c := range method.SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// HandleMethodSelection updates the selection and, unless currency
// disambiguation is required, runs the method's workflow. The returned
// channel closes when the workflow (if any) finished.
func (o *Orchestrator) HandleMethodSelection(ctx context.Context, methodID string) <-chan struct{} {
	done := make(chan struct{})

	o.mu.Lock()
	o.selectMethodLocked(methodID)

	method, ok := o.methods[o.selectedMethodID]
	if !ok || o.currencySelectorOpen {
		o.mu.Unlock()
		close(done)
		return done
	}

	gen := o.bumpGenerationLocked()
	payload := workflow.Payload{Method: method, Currency: o.selectedCurrency}
	o.mu.Unlock()

	go func() {
		defer close(done)
		o.resolver.Resolve(method).HandleSelection(withGeneration(ctx, gen), payload)
	}()
	return done
}

// HandleCurrencySelection validates and applies the chosen currency,
// then runs the selected method's workflow. Invalid currencies and
// stale callbacks racing a method switch are no-ops.
func (o *Orchestrator) HandleCurrencySelection(ctx context.Context, currency string) <-chan struct{} {
	done := make(chan struct{})

	o.mu.Lock()
	method, ok := o.methods[o.selectedMethodID]
	if !ok {
		o.mu.Unlock()
		close(done)
		return done
	}

	o.chooseCurrencyLocked(currency)
	if o.selectedCurrency != currency {
		// Rejected: not in the method's supported list.
		o.mu.Unlock()
		close(done)
		return done
	}

	gen := o.bumpGenerationLocked()
	payload := workflow.Payload{Method: method, Currency: currency}
	o.mu.Unlock()

	go func() {
		defer close(done)
		o.resolver.Resolve(method).HandleCurrencySelection(withGeneration(ctx, gen), payload)
	}()
	return done
}

// CloseDialog hides the deep-link dialog. Idempotent.
func (o *Orchestrator) CloseDialog() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dialog = nil
}

// CloseTransferDialog hides the transfer accounts dialog. Idempotent.
func (o *Orchestrator) CloseTransferDialog() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transferDialogVisible = false
}

// CloseTossInstructionDialog dismisses the instruction dialog. The
// countdown is actively cancelled so its timer stops and the pending
// workflow sees "do not launch". Idempotent.
func (o *Orchestrator) CloseTossInstructionDialog() {
	o.countdown.Cancel()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.tossDialogVisible = false
	o.tossCountdown = 0
	o.tossCopied = false
	o.tossDeepLinkURL = ""
}

// CompleteTossInstructionCountdown lets the user skip the wait and
// launch immediately
func (o *Orchestrator) CompleteTossInstructionCountdown() {
	o.countdown.Complete()
}

// ReopenTossDeepLink relaunches the staged Toss deep link from the
// not-mobile/not-installed dialog
func (o *Orchestrator) ReopenTossDeepLink(ctx context.Context) {
	o.mu.Lock()
	uri := o.tossDeepLinkURL
	gen := o.generation
	o.mu.Unlock()

	if uri == "" {
		return
	}
	o.LaunchDeepLink(withGeneration(ctx, gen), domain.DeepLinkToss, uri, workflow.TossLaunchTimeout)
}

func (o *Orchestrator) bumpGenerationLocked() uint64 {
	o.generation++
	// A newly accepted selection owns the visible state; any stale
	// checking flag belongs to an abandoned attempt.
	o.checking = false
	return o.generation
}
