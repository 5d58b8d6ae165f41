// Package device classifies the current client environment.
package device

import (
	"regexp"
	"strings"
)

var mobilePattern = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|windows phone`)

// IsMobileUserAgent reports whether the user-agent string belongs to a mobile platform
func IsMobileUserAgent(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return false
	}
	return mobilePattern.MatchString(userAgent)
}

// Classifier decides whether the current client is a mobile device.
// The user-agent source is injected so non-browser contexts report false.
type Classifier struct {
	userAgent func() string
}

// NewClassifier creates a classifier over the given user-agent source.
// A nil source means the signal is unavailable.
func NewClassifier(userAgent func() string) *Classifier {
	return &Classifier{userAgent: userAgent}
}

// IsMobile reports whether the client is a mobile device.
// Pure predicate: no side effects, false when the signal is unavailable.
func (c *Classifier) IsMobile() bool {
	if c == nil || c.userAgent == nil {
		return false
	}
	return IsMobileUserAgent(c.userAgent())
}
