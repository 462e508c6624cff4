package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/adamwoolhether/clearfetch/client/challenge"
	"github.com/adamwoolhether/clearfetch/fetch"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("usage")

// exitError carries the code of a run that already logged its failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return fetch.ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	fmt.Fprintf(stderr, "Error: %v\n%s", err, cmd.UsageString())
	return fetch.ExitFailure
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clearfetch <URL> [output_file]",
		Short: "Fetch a URL from behind bot protection",
		Long: `clearfetch - Download a URL while presenting as a desktop browser.

The body is streamed to output_file with a progress bar on stderr, or
written to stdout when no file is given. Bot-protection challenges are
detected and reported rather than saved.

Exit codes:
  0  success
  1  usage error or other failure
  2  bot-protection challenge
  3  unexpected HTTP status
  4  network error or timeout`,
		Args:          checkArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	defaults := fetch.DefaultConfig()
	cmd.Flags().Duration("timeout", defaults.Timeout, "Timeout for connecting and awaiting response headers")
	cmd.Flags().Int("chunk-size", defaults.ChunkSize, "Bytes written per chunk when saving to a file")
	cmd.Flags().Float64("rate", 0, "Requests per second, 0 disables throttling")
	cmd.Flags().Int("burst", 0, "Throttle burst size (default 1 when --rate is set)")
	cmd.Flags().StringP("user-agent", "A", "", "Override the browser profile's User-Agent")
	cmd.Flags().StringP("browser", "b", defaults.Browser, "Browser profile: "+strings.Join(challenge.ProfileNames(), ", "))
	cmd.Flags().String("sha256", "", "Expected hex SHA-256 of the saved file")
	cmd.Flags().BoolP("quiet", "q", false, "Hide the progress bar and informational logs")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

func checkArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return fmt.Errorf("%w: missing URL", errUsage)
	case len(args) > 2:
		return fmt.Errorf("%w: expected at most 2 arguments, got %d", errUsage, len(args))
	}

	return nil
}

func runFetch(cmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	cfg := buildConfig(cmd, args)

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(stderr, cfg.Quiet, verbose)

	if _, err := fetch.Run(cmd.Context(), cfg, stdout, stderr, logger); err != nil {
		code := fetch.ExitCode(err)
		logger.Error("fetch failed", "url", cfg.URL, "output", outputName(cfg), "exit_code", code, "error", err)

		return &exitError{code: code, err: err}
	}

	return nil
}

func buildConfig(cmd *cobra.Command, args []string) fetch.Config {
	cfg := fetch.DefaultConfig()
	cfg.URL = args[0]
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	cfg.ChunkSize, _ = cmd.Flags().GetInt("chunk-size")
	cfg.RPS, _ = cmd.Flags().GetFloat64("rate")
	cfg.Burst, _ = cmd.Flags().GetInt("burst")
	cfg.UserAgent, _ = cmd.Flags().GetString("user-agent")
	cfg.SHA256, _ = cmd.Flags().GetString("sha256")
	cfg.Quiet, _ = cmd.Flags().GetBool("quiet")

	browser, _ := cmd.Flags().GetString("browser")
	cfg.Browser = strings.ToLower(browser)

	return cfg
}

func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func outputName(cfg fetch.Config) string {
	if cfg.Output == "" {
		return fetch.Stdout
	}

	return cfg.Output
}
