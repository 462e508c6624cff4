package challenge

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// transport is an http.RoundTripper that dresses requests up as
// browser navigations and turns challenge pages into errors.
type transport struct {
	profile Profile
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// NewTransport returns an http.RoundTripper applying profile to every
// outbound request. logFn lazily resolves the logger at request time,
// a nil-returning logFn disables logging.
func NewTransport(profile Profile, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if next == nil {
		return nil, errors.New("next transport must not be nil")
	}
	if len(profile.Header) == 0 {
		return nil, errors.New("profile must define headers")
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	t := &transport{
		profile: profile,
		next:    next,
		logFn:   logFn,
	}

	return t, nil
}

func (t *transport) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	t.profile.apply(cpy.Header)

	resp, err := t.next.RoundTrip(cpy)
	if err != nil {
		return nil, err
	}

	var head []byte
	if suspicious(resp.StatusCode) {
		head, err = io.ReadAll(io.LimitReader(resp.Body, sniffLimit))
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body = &replayBody{Reader: io.MultiReader(bytes.NewReader(head), resp.Body), Closer: resp.Body}
	}

	p, ok := Detect(resp, head)
	if !ok {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, sniffLimit))
	resp.Body.Close()

	if logger := t.logFn(); logger != nil {
		logger.Warn("challenge detected", "provider", p, "status", resp.StatusCode, "host", r.URL.Host, "profile", t.profile.Name)
	}

	return nil, &Error{
		Provider:   p,
		StatusCode: resp.StatusCode,
		URL:        r.URL.Redacted(),
		Err:        ErrChallenge,
	}
}

// replayBody re-serves the sniffed prefix ahead of the unread body.
type replayBody struct {
	io.Reader
	io.Closer
}
