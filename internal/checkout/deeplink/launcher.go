package deeplink

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/roadshop/checkout-backend/internal/checkout/device"
	"github.com/roadshop/checkout-backend/internal/checkout/future"
	"github.com/roadshop/checkout-backend/pkg/logger"
)

// Navigator performs the platform navigation to a deep-link URI.
// Navigation to an unregistered scheme is silently ignored by the OS,
// so a nil error only means the navigation was attempted.
type Navigator interface {
	Navigate(uri string) error
}

// SignalSource exposes the environment's blur/visibility-hidden signal.
// Subscribe registers a scoped listener pair for one launch attempt; the
// returned cancel tears it down. Implementations must support concurrent
// subscriptions so competing launch attempts never share resolver state.
type SignalSource interface {
	Subscribe() (hidden <-chan struct{}, cancel func())
}

// Options controls a single launch attempt
type Options struct {
	// Timeout bounds how long to wait for the hidden signal before
	// concluding the companion app is not installed.
	Timeout time.Duration

	// NavigateWhenNotMobile still attempts the navigation on non-mobile
	// clients for manual fallback. Policy varies per workflow.
	NavigateWhenNotMobile bool

	OnChecking     func(checking bool)
	OnNotMobile    func()
	OnNotInstalled func()
}

// Launcher attempts deep-link navigation and infers the outcome.
//
// Detection is best-effort: the only failure signal is the absence of a
// blur/visibility-hidden event within the timeout. There is no exact way
// to know whether the app is installed.
type Launcher struct {
	classifier *device.Classifier
	navigator  Navigator
	signals    SignalSource
	checking   atomic.Bool
}

// NewLauncher creates a launcher over the given environment
func NewLauncher(classifier *device.Classifier, navigator Navigator, signals SignalSource) *Launcher {
	return &Launcher{classifier: classifier, navigator: navigator, signals: signals}
}

// IsChecking reports whether a launch attempt is currently racing its timeout
func (l *Launcher) IsChecking() bool {
	return l.checking.Load()
}

// Launch navigates to uri and races the hidden signal against the timeout.
// If the signal fires first the launch is treated as successful; if the
// timer fires first OnNotInstalled is invoked exactly once. On non-mobile
// clients OnNotMobile is invoked instead and detection is skipped.
// The checking flag is cleared on every exit path.
func (l *Launcher) Launch(ctx context.Context, uri string, opts Options) {
	if !l.classifier.IsMobile() {
		if opts.OnNotMobile != nil {
			opts.OnNotMobile()
		}
		if opts.NavigateWhenNotMobile {
			_ = l.navigator.Navigate(uri)
		}
		return
	}

	l.setChecking(true, opts.OnChecking)
	defer l.setChecking(false, opts.OnChecking)

	waitCtx, stopWait := context.WithCancel(ctx)
	defer stopWait()

	// Subscribe before navigating so a fast app switch is not missed.
	monitor := l.monitorLaunch(waitCtx, opts.Timeout)

	if err := l.navigator.Navigate(uri); err != nil {
		// Navigation unavailable (non-browser context); nothing to detect.
		logger.Debug("deep link navigation unavailable: %v", err)
		return
	}

	didLaunch := <-monitor
	if ctx.Err() != nil {
		// Attempt abandoned; the outcome no longer matters.
		return
	}

	if !didLaunch {
		// Expected detection outcome, not an error.
		logger.Debug("no hidden signal within %s, treating deep link as not handled", opts.Timeout)
		if opts.OnNotInstalled != nil {
			opts.OnNotInstalled()
		}
	}
}

// monitorLaunch resolves true if the hidden signal fires before the
// timeout, false otherwise. The signal listener is registered here and
// torn down when the race settles.
func (l *Launcher) monitorLaunch(ctx context.Context, timeout time.Duration) <-chan bool {
	p := future.NewBool()
	hidden, cancel := l.signals.Subscribe()

	go func() {
		defer cancel()

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-hidden:
			p.Resolve(true)
		case <-timer.C:
			p.Resolve(false)
		case <-ctx.Done():
			p.Resolve(false)
		}
	}()

	return p.Wait()
}

func (l *Launcher) setChecking(v bool, onChecking func(bool)) {
	l.checking.Store(v)
	if onChecking != nil {
		onChecking(v)
	}
}
