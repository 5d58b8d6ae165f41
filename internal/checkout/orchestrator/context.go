package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/roadshop/checkout-backend/internal/checkout/deeplink"
	"github.com/roadshop/checkout-backend/internal/checkout/workflow"
	"github.com/roadshop/checkout-backend/internal/domain"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

type ctxKey int

const generationKey ctxKey = 0

// withGeneration tags a workflow run with the selection generation that
// started it. Launch callbacks read it back to detect staleness.
func withGeneration(ctx context.Context, gen uint64) context.Context {
	return context.WithValue(ctx, generationKey, gen)
}

func generationFrom(ctx context.Context) uint64 {
	gen, _ := ctx.Value(generationKey).(uint64)
	return gen
}

// EnsureMethodInfo loads the method's payment detail before a workflow
// acts on it
func (o *Orchestrator) EnsureMethodInfo(ctx context.Context, methodID string) bool {
	return o.info.EnsureMethodInfo(ctx, methodID)
}

// ResolveDeepLink builds the provider URI from the loaded detail
func (o *Orchestrator) ResolveDeepLink(provider domain.DeepLinkProvider) (string, error) {
	return deeplink.Resolve(provider, o.info.DeepLinkDetail(provider))
}

// LaunchDeepLink runs the launch detector and routes its outcome into
// dialog state. Outcomes from a superseded selection are dropped.
func (o *Orchestrator) LaunchDeepLink(ctx context.Context, provider domain.DeepLinkProvider, uri string, timeout time.Duration) {
	gen := generationFrom(ctx)

	o.launcher.Launch(ctx, uri, deeplink.Options{
		Timeout: timeout,
		OnChecking: func(active bool) {
			o.setChecking(gen, active)
		},
		OnNotMobile: func() {
			o.showDialog(gen, workflow.PopupNotMobile, provider, uri)
		},
		OnNotInstalled: func() {
			o.showDialog(gen, workflow.PopupNotInstalled, provider, "")
		},
	})
}

func (o *Orchestrator) setChecking(gen uint64, active bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if active {
		if gen != o.generation {
			return
		}
		o.checking = true
		o.checkingGen = gen
		return
	}

	// Only the attempt that raised the flag may clear it.
	if o.checkingGen == gen {
		o.checking = false
	}
}

func (o *Orchestrator) showDialog(gen uint64, typ workflow.PopupType, provider domain.DeepLinkProvider, deepLinkURL string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		logger.Debug("dropping stale %s dialog for %s", typ, provider)
		return
	}

	label := o.bundle.T(o.locale, "options."+string(provider))

	var title, message string
	switch typ {
	case workflow.PopupNotMobile:
		title = o.bundle.T(o.locale, "dialogs.not_mobile.title")
		message = o.bundle.T(o.locale, "dialogs.not_mobile.description", label)
	default:
		title = o.bundle.T(o.locale, "dialogs.not_installed.title")
		message = o.bundle.T(o.locale, "dialogs.not_installed.description", label)
	}

	o.dialog = &DeepLinkDialog{
		Type:         typ,
		Provider:     provider,
		Title:        title,
		Message:      message,
		ConfirmLabel: o.bundle.T(o.locale, "dialogs.confirm"),
		DeepLinkURL:  deepLinkURL,
	}
}

// OpenTransferDialog shows the bank-account list dialog
func (o *Orchestrator) OpenTransferDialog() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transferDialogVisible = true
}

// OpenMethodURL resolves the method's currency-specific URL and opens
// it in a new tab. Missing URLs are a silent no-op.
func (o *Orchestrator) OpenMethodURL(ctx context.Context, method domain.PaymentMethod, currency string) {
	if !o.info.EnsureMethodInfo(ctx, method.ID) {
		return
	}

	url := o.info.MethodURL(method.ID, currency)
	if url == "" {
		logger.Debug("no url for method %s currency %s", method.ID, currency)
		return
	}

	if err := o.opener.OpenNewTab(url); err != nil {
		logger.Warn("open method url %s: %v", url, err)
	}
}

// CopyTossAccountInfo copies the Toss transfer account summary to the
// clipboard. Best-effort; failures only leave the copied flag unset.
func (o *Orchestrator) CopyTossAccountInfo(ctx context.Context) bool {
	detail := o.info.DeepLinkDetail(domain.DeepLinkToss)
	if detail == nil || detail.Toss == nil {
		return false
	}

	err := o.clipboard.Copy(ctx, TransferCopyPayload(detail.Toss.Account, detail.Toss.Amount))
	if err != nil {
		logger.Debug("copy toss account info: %v", err)
	}

	o.mu.Lock()
	o.tossCopied = err == nil
	o.mu.Unlock()
	return err == nil
}

// ShowTossInstructionDialog opens the instruction dialog and starts its
// countdown. The returned channel resolves true when the countdown ran
// out or the user skipped ahead, false when the dialog was dismissed,
// and closes unresolved when a newer countdown supersedes this one.
func (o *Orchestrator) ShowTossInstructionDialog(seconds int) <-chan bool {
	o.mu.Lock()
	o.tossDialogVisible = true
	o.mu.Unlock()

	return o.countdown.Start(seconds)
}

// CompleteTossInstructionDialog finalizes the countdown once the launch
// sequence is past it. The dialog itself stays until the user closes it.
func (o *Orchestrator) CompleteTossInstructionDialog() {
	o.countdown.Reset()
}

// SetTossDeepLinkURL stages the resolved Toss URI for reopening from a
// dialog. An empty string clears the staged link.
func (o *Orchestrator) SetTossDeepLinkURL(uri string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tossDeepLinkURL = uri
}

// TransferCopyPayload formats the "bank number [holder] amount" line
// copied to the clipboard for manual transfers
func TransferCopyPayload(account domain.TransferAccount, amount domain.Amount) string {
	return fmt.Sprintf("%s %s [%s] %s", account.Bank, account.Number, account.Holder, FormatKRW(amount.KRW))
}

// FormatKRW renders a won amount with thousands separators, e.g. ₩130,000
func FormatKRW(krw float64) string {
	digits := strconv.FormatInt(int64(krw), 10)

	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}

	var grouped []byte
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	if negative {
		return "-₩" + string(grouped)
	}
	return "₩" + string(grouped)
}
