// Package workflow maps a selected payment method to the sequence of
// steps that completes it.
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/roadshop/checkout-backend/internal/domain"
)

// Per-provider launch policy. Toss shows a 5-second instruction dialog
// before launching; Kakao launches straight away with a shorter window.
const (
	TossInstructionSeconds = 5
	TossLaunchTimeout      = 2000 * time.Millisecond
	KakaoLaunchTimeout     = 1500 * time.Millisecond
)

// PopupType identifies a deep-link dialog variant
type PopupType string

const (
	PopupNotMobile    PopupType = "not-mobile"
	PopupNotInstalled PopupType = "not-installed"
)

// Payload carries the selection being acted on. Currency is empty when
// the method has a single supported currency already applied.
type Payload struct {
	Method   domain.PaymentMethod
	Currency string
}

// Context is the set of orchestrator operations a workflow may perform.
// All operations swallow their own failures; workflows only branch on
// the returned success flags.
type Context interface {
	// EnsureMethodInfo loads the method's detail, returning false when
	// the workflow must abort silently.
	EnsureMethodInfo(ctx context.Context, methodID string) bool

	// ResolveDeepLink builds the provider URI from the cached detail
	ResolveDeepLink(provider domain.DeepLinkProvider) (string, error)

	// LaunchDeepLink runs the launch detector for the provider,
	// reporting outcomes through the orchestrator's dialog state
	LaunchDeepLink(ctx context.Context, provider domain.DeepLinkProvider, uri string, timeout time.Duration)

	// OpenTransferDialog shows the bank-account list dialog
	OpenTransferDialog()

	// OpenMethodURL resolves a currency-specific URL and opens it in a
	// new browsing context
	OpenMethodURL(ctx context.Context, method domain.PaymentMethod, currency string)

	// CopyTossAccountInfo copies the Toss account payload to the
	// clipboard. Best-effort; the launch proceeds either way.
	CopyTossAccountInfo(ctx context.Context) bool

	// ShowTossInstructionDialog opens the instruction dialog and starts
	// its countdown; the channel reports whether to proceed, or closes
	// without a value when a newer countdown supersedes this one
	ShowTossInstructionDialog(seconds int) <-chan bool

	// CompleteTossInstructionDialog finalizes the countdown after the
	// dependent launch finished via another path
	CompleteTossInstructionDialog()

	// SetTossDeepLinkURL stages the resolved URI for possible reopen
	SetTossDeepLinkURL(uri string)
}

// Action is one workflow variant. Both operations run the same flow for
// every variant; they exist separately so the orchestrator can route
// selection and currency-disambiguation events without re-resolving.
type Action interface {
	HandleSelection(ctx context.Context, payload Payload)
	HandleCurrencySelection(ctx context.Context, payload Payload)
}

// Resolver maps a method to its workflow, memoizing one Action per
// method id so repeated selections reuse a single workflow object.
type Resolver struct {
	c     Context
	mu    sync.Mutex
	cache map[string]Action
}

// NewResolver creates a resolver bound to the given workflow context
func NewResolver(c Context) *Resolver {
	return &Resolver{c: c, cache: make(map[string]Action)}
}

// Resolve returns the workflow for a method, constructing it on first use
func (r *Resolver) Resolve(method domain.PaymentMethod) Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	if action, ok := r.cache[method.ID]; ok {
		return action
	}

	action := r.newAction(method.ID)
	r.cache[method.ID] = action
	return action
}

// newAction is the closed mapping from method id to workflow variant
func (r *Resolver) newAction(methodID string) Action {
	switch methodID {
	case "transfer":
		return &transferAction{c: r.c}
	case "toss":
		return &tossAction{c: r.c}
	case "kakao":
		return &kakaoAction{c: r.c}
	default:
		return &defaultAction{c: r.c}
	}
}
