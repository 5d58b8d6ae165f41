package workflow

import (
	"context"

	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// resolveFor loads the provider's payment info and builds its deep-link
// URI. Resolution failures are logged and reported as "abort silently".
func resolveFor(ctx context.Context, c Context, provider domain.DeepLinkProvider) (string, bool) {
	if !c.EnsureMethodInfo(ctx, string(provider)) {
		return "", false
	}

	uri, err := c.ResolveDeepLink(provider)
	if err != nil {
		logger.Error("resolve %s deep link: %v", provider, err)
		return "", false
	}
	return uri, true
}

// transferAction ensures the transfer detail is loaded, then opens the
// account-list dialog. The dialog is closed independently by the user.
type transferAction struct {
	c Context
}

func (a *transferAction) HandleSelection(ctx context.Context, _ Payload) {
	a.run(ctx)
}

func (a *transferAction) HandleCurrencySelection(ctx context.Context, _ Payload) {
	a.run(ctx)
}

func (a *transferAction) run(ctx context.Context) {
	if !a.c.EnsureMethodInfo(ctx, "transfer") {
		return
	}
	a.c.OpenTransferDialog()
}

// tossAction stages the deep link for reopen, copies the account info,
// waits out the instruction countdown and then launches. The countdown
// is finalized on every launch exit path.
type tossAction struct {
	c Context
}

func (a *tossAction) HandleSelection(ctx context.Context, _ Payload) {
	a.run(ctx)
}

func (a *tossAction) HandleCurrencySelection(ctx context.Context, _ Payload) {
	a.run(ctx)
}

func (a *tossAction) run(ctx context.Context) {
	a.c.SetTossDeepLinkURL("")

	uri, ok := resolveFor(ctx, a.c, domain.DeepLinkToss)
	if !ok {
		return
	}

	a.c.SetTossDeepLinkURL(uri)

	// Fire-and-forget; a clipboard failure never blocks the launch.
	a.c.CopyTossAccountInfo(ctx)

	proceed, ok := <-a.c.ShowTossInstructionDialog(TossInstructionSeconds)
	if !ok {
		// Superseded by a newer countdown; that workflow owns the dialog now.
		return
	}
	if !proceed {
		a.c.CompleteTossInstructionDialog()
		return
	}

	defer a.c.CompleteTossInstructionDialog()
	a.c.LaunchDeepLink(ctx, domain.DeepLinkToss, uri, TossLaunchTimeout)
}

// kakaoAction launches immediately: no account copy, no countdown.
// Provider UX difference, must be preserved.
type kakaoAction struct {
	c Context
}

func (a *kakaoAction) HandleSelection(ctx context.Context, _ Payload) {
	a.run(ctx)
}

func (a *kakaoAction) HandleCurrencySelection(ctx context.Context, _ Payload) {
	a.run(ctx)
}

func (a *kakaoAction) run(ctx context.Context) {
	uri, ok := resolveFor(ctx, a.c, domain.DeepLinkKakao)
	if !ok {
		return
	}
	a.c.LaunchDeepLink(ctx, domain.DeepLinkKakao, uri, KakaoLaunchTimeout)
}

// defaultAction covers URL-based methods (global wallets, cards,
// coming-soon pages): resolve a currency-specific or generic URL and
// open it in a new browsing context.
type defaultAction struct {
	c Context
}

func (a *defaultAction) HandleSelection(ctx context.Context, payload Payload) {
	a.c.OpenMethodURL(ctx, payload.Method, payload.Currency)
}

func (a *defaultAction) HandleCurrencySelection(ctx context.Context, payload Payload) {
	a.c.OpenMethodURL(ctx, payload.Method, payload.Currency)
}
