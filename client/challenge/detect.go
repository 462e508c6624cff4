package challenge

import (
	"bytes"
	"net/http"
	"strings"
)

// markers are fragments of the interstitial pages served by each provider.
var markers = map[Provider][][]byte{
	Cloudflare: {
		[]byte("Just a moment..."),
		[]byte("cf-browser-verification"),
		[]byte("challenge-platform"),
		[]byte("cf_chl_opt"),
		[]byte("Attention Required! | Cloudflare"),
	},
	DDoSGuard: {
		[]byte("DDoS-Guard"),
		[]byte("ddos-guard/js-challenge"),
	},
	Sucuri: {
		[]byte("Sucuri WebSite Firewall"),
		[]byte("sucuri_cloudproxy_js"),
	},
}

// suspicious reports whether the status code is one protection layers
// serve challenges with. Only these responses have their body sniffed.
func suspicious(code int) bool {
	switch code {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// provider identifies the protection layer from the response headers.
func provider(h http.Header) (Provider, bool) {
	server := strings.ToLower(h.Get("Server"))

	switch {
	case h.Get("Cf-Ray") != "" || strings.Contains(server, "cloudflare"):
		return Cloudflare, true
	case strings.Contains(server, "ddos-guard"):
		return DDoSGuard, true
	case h.Get("X-Sucuri-Id") != "" || strings.Contains(server, "sucuri"):
		return Sucuri, true
	}

	return "", false
}

// Detect reports whether resp is a challenge page. head holds the first
// bytes of the body and may be nil when the status isn't suspicious.
func Detect(resp *http.Response, head []byte) (Provider, bool) {
	if strings.EqualFold(resp.Header.Get("Cf-Mitigated"), "challenge") {
		return Cloudflare, true
	}

	if !suspicious(resp.StatusCode) {
		return "", false
	}

	p, ok := provider(resp.Header)
	if !ok {
		return "", false
	}

	for _, m := range markers[p] {
		if bytes.Contains(head, m) {
			return p, true
		}
	}

	return "", false
}
