package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/clearfetch"
	"github.com/adamwoolhether/clearfetch/client"
	"github.com/adamwoolhether/clearfetch/client/challenge"
	"github.com/adamwoolhether/clearfetch/progress"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/adamwoolhether/clearfetch/fetch"

// Run retrieves cfg.URL. With cfg.Output set the body is streamed to that
// file while a progress bar is drawn on stderr, otherwise it is written to
// stdout. Errors are returned unlogged; map them with [ExitCode].
func Run(ctx context.Context, cfg Config, stdout, stderr io.Writer, logger *slog.Logger) (res Result, err error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "fetch.run")
	span.SetAttributes(attribute.String("clearfetch.destination", cfg.destination()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	traceID := uuid.NewString()
	if sc := span.SpanContext(); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	logger = logger.With("trace_id", traceID)

	c, err := newClient(cfg, logger)
	if err != nil {
		return Result{}, err
	}

	u, err := client.ParseURL(cfg.URL)
	if err != nil {
		return Result{}, err
	}

	req, err := c.Request(ctx, u, http.MethodGet)
	if err != nil {
		return Result{}, err
	}

	logger.Info("fetching", "url", u.Redacted(), "output", cfg.destination())
	start := time.Now()

	if cfg.Output != "" {
		res, err = toFile(c, req, cfg, stderr)
	} else {
		res, err = toStdout(c, req, stdout)
	}
	if err != nil {
		return res, err
	}

	span.SetAttributes(attribute.Int64("clearfetch.bytes", res.Bytes))
	logger.Info("fetch complete", "bytes", res.Bytes, "output", res.Destination, "content_type", res.ContentType, "since", time.Since(start).String())

	return res, nil
}

func newClient(cfg Config, logger *slog.Logger) (*client.Client, error) {
	profile, err := challenge.ProfileByName(cfg.Browser)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithProfile(profile),
		client.WithResponseTimeout(cfg.Timeout),
	}

	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}

	if cfg.RPS > 0 {
		opts = append(opts, client.WithThrottle(cfg.RPS, max(cfg.Burst, 1)))
	}

	c, err := clearfetch.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	return c, nil
}

func toFile(c *client.Client, req *http.Request, cfg Config, stderr io.Writer) (Result, error) {
	res := Result{Destination: cfg.Output}

	opts := []client.DownloadOption{client.WithChunkSize(cfg.ChunkSize)}
	if !cfg.Quiet {
		opts = append(opts, client.WithProgress(progress.New(stderr, progress.WithPrefix("Progress:"))))
	}
	if cfg.SHA256 != "" {
		opts = append(opts, client.WithChecksum(sha256.New(), cfg.SHA256))
	}

	n, err := c.Download(req, cfg.Output, opts...)
	res.Bytes = n
	if err != nil {
		return res, err
	}

	mt, err := mimetype.DetectFile(cfg.Output)
	if err != nil {
		return res, fmt.Errorf("detecting content type: %w", err)
	}
	res.ContentType = mt.String()

	return res, nil
}

func toStdout(c *client.Client, req *http.Request, stdout io.Writer) (Result, error) {
	res := Result{Destination: Stdout}

	body, err := c.Fetch(req)
	if err != nil {
		return res, err
	}

	n, err := stdout.Write(body)
	res.Bytes = int64(n)
	if err != nil {
		return res, fmt.Errorf("writing to stdout: %w", err)
	}
	res.ContentType = mimetype.Detect(body).String()

	return res, nil
}
