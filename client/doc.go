// Package client provides a challenge-capable HTTP client built on
// [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithResponseTimeout(30 * time.Second),
//		client.WithProfile(challenge.Firefox),
//	)
//
// Every request carries the browser profile's headers, cookies set by
// the protection layer are replayed from the client's jar, and a
// challenge page fails the request with [ErrChallenge].
//
// # Fetching
//
// Parse a [url.URL] with [ParseURL], build a [Request], then read the
// whole body with [Client.Fetch]:
//
//	u, err := client.ParseURL("https://example.com/page")
//	req, err := client.Request(ctx, u, http.MethodGet)
//	body, err := c.Fetch(req)
//
// Any status outside 2xx returns an [*UnexpectedStatusError].
//
// # Downloading Files
//
// Stream a response body to disk in fixed-size chunks with optional
// checksum verification and progress reporting:
//
//	n, err := c.Download(req, "/tmp/file.bin",
//		client.WithChunkSize(8<<10),
//		client.WithProgress(bar),
//	)
//
// For lower-level control see the
// [github.com/adamwoolhether/clearfetch/client/download] package.
package client
