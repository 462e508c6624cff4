// Package throttle provides an [http.RoundTripper] that paces outbound
// requests with a token bucket from [golang.org/x/time/rate].
//
// # Usage
//
//	rt, err := throttle.New(
//		throttle.Config{RPS: 2, Burst: 1},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// A request that arrives with the bucket empty blocks until a token is
// available or its context ends.
package throttle
