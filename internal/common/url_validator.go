package common

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInsecurePaymentURL is returned when a catalog URL would send the
// user somewhere other than an absolute https destination
var ErrInsecurePaymentURL = errors.New("payment urls must be absolute https")

// Payment hosts we never link out to: URL shorteners hide the real
// destination from the person about to pay.
var blockedShortenerHosts = []string{
	"bit.ly",
	"t.co",
	"tinyurl.com",
	"naver.me",
}

// ValidatePaymentURL checks that a catalog URL is safe to open in a new
// tab: absolute, https, and not behind a link shortener.
func ValidatePaymentURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsecurePaymentURL, err)
	}

	if parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInsecurePaymentURL, raw)
	}

	host := strings.ToLower(parsed.Hostname())
	for _, blocked := range blockedShortenerHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return fmt.Errorf("%w: shortener %q", ErrInsecurePaymentURL, host)
		}
	}
	return nil
}
