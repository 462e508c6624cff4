package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/adamwoolhether/clearfetch/client/challenge"
	"github.com/adamwoolhether/clearfetch/client/download"
	"github.com/adamwoolhether/clearfetch/client/throttle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"
)

// Client wraps the std-lib *http.Client.
// Its transport presents a browser profile, keeps clearance cookies
// and reports challenge pages as errors; all of which can be
// customized via optional funcs.
type Client struct {
	c           *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
	readTimeout time.Duration
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	switch {
	case opts.jar != nil:
		client.c.Jar = opts.jar
	case client.c.Jar == nil:
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		client.c.Jar = jar
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}

	if opts.responseTimeout != nil {
		base, ok := transport.(*http.Transport)
		if !ok {
			return nil, fmt.Errorf("response timeout requires *http.Transport, got %T", transport)
		}
		transport = withPhaseTimeouts(base, *opts.responseTimeout)
		client.readTimeout = *opts.responseTimeout
	}

	profile := challenge.Chrome
	if opts.profile != nil {
		profile = *opts.profile
	}
	logFn := func() *slog.Logger { return client.logger }

	transport, err := challenge.NewTransport(profile, logFn, transport)
	if err != nil {
		return nil, fmt.Errorf("configuring challenge transport: %w", err)
	}

	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}

	if opts.throttle != nil {
		rt, err := throttle.New(*opts.throttle, logFn, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Fetch fires the request and returns the whole response body.
func (c *Client) Fetch(req *http.Request) ([]byte, error) {
	var body []byte

	readFunc := func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		body = b

		return nil
	}

	if err := c.exec(req, readFunc); err != nil {
		return nil, err
	}

	return body, nil
}

// Download executes a request that's intended to stream the response body to destPath.
// Data streams to a temp file in the same directory, then the temp file is renamed to
// destPath on success or cleared on failure. The number of bytes written is returned.
func (c *Client) Download(req *http.Request, destPath string, opts ...DownloadOption) (int64, error) {
	if destPath == "" {
		return 0, errors.New("destPath must not be empty")
	}

	var written int64

	dlFunc := func(resp *http.Response) error {
		n, err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...)
		written = n
		if err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	if err := c.exec(req, dlFunc); err != nil {
		return written, err
	}

	return written, nil
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// exec runs the request and injected function on success after validating the status code.
func (c *Client) exec(req *http.Request, fn execFn) (err error) {
	ctx, span := c.tracer.Start(req.Context(), "client.exec", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.full", req.URL.Redacted()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// Cancelling aborts a body read that stalls past readTimeout.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req = req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()

	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	if c.readTimeout > 0 {
		resp.Body = newIdleBody(resp.Body, c.readTimeout, cancel)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Info("response received", "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode, "content_length", resp.ContentLength, "since", time.Since(start).String())

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBodySize)); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        ErrUnexpectedStatusCode,
		}
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// withPhaseTimeouts clones base with d applied to dialing,
// the TLS handshake and waiting for response headers.
func withPhaseTimeouts(base *http.Transport, d time.Duration) *http.Transport {
	t := base.Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   d,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = d
	t.ResponseHeaderTimeout = d

	return t
}

// Request instantiates an *http.Request with the provided information.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// ParseURL parses raw and accepts only absolute http and https URLs.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}

	return u, nil
}
