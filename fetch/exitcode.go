package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"

	"github.com/adamwoolhether/clearfetch/client"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitChallenge  = 2
	ExitHTTPStatus = 3
	ExitNetwork    = 4
)

// ExitCode maps err to a process exit code. Challenge errors reach the
// caller wrapped in *url.Error, so they are matched before network errors.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, client.ErrChallenge):
		return ExitChallenge
	case errors.Is(err, client.ErrUnexpectedStatusCode):
		return ExitHTTPStatus
	case errors.Is(err, context.Canceled):
		return ExitFailure
	case isNetwork(err):
		return ExitNetwork
	default:
		return ExitFailure
	}
}

func isNetwork(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, client.ErrContentLengthMismatch)
}
