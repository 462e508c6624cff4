// Package challenge provides an [http.RoundTripper] that presents a
// browser-like request profile to bot-protected sites and recognises the
// interstitial pages those sites serve when the request is not let through.
//
// # Usage
//
// Wrap a base transport with [NewTransport]:
//
//	rt, err := challenge.NewTransport(challenge.Chrome, http.DefaultTransport)
//	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
//	httpClient := &http.Client{Transport: rt, Jar: jar}
//
// Clearance cookies set by the protection layer are kept by the client's
// cookie jar, so a site that only checks passive signals lets subsequent
// requests through.
//
// When an interactive challenge is served, the response body is closed and
// the round trip fails with an [*Error] wrapping [ErrChallenge]. Solving the
// challenge (executing its JavaScript, CAPTCHAs) is not attempted.
package challenge
