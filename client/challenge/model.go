package challenge

import (
	"errors"
	"fmt"
)

// sniffLimit caps how much of a suspicious response body is
// inspected for interstitial markers.
const sniffLimit = 8 << 10 // 8KB

var (
	// ErrChallenge is the sentinel wrapped by [Error].
	ErrChallenge = errors.New("bot challenge not passed")
	// ErrUnknownProfile is returned by [ProfileByName] for unsupported names.
	ErrUnknownProfile = errors.New("unknown browser profile")
)

// Provider identifies the protection layer that served a challenge.
type Provider string

const (
	Cloudflare Provider = "cloudflare"
	DDoSGuard  Provider = "ddos-guard"
	Sucuri     Provider = "sucuri"
)

// Error is returned when a response is recognised as a challenge page.
type Error struct {
	Provider   Provider
	StatusCode int
	URL        string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s responded %d for %s", e.Err, e.Provider, e.StatusCode, e.URL)
}

func (e *Error) Unwrap() error {
	return e.Err
}
