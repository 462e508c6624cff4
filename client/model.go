package client

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

// tracerName identifies spans started by the client.
const tracerName = "github.com/adamwoolhether/clearfetch/client"

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrReadTimeout is returned when a response body read stalls for
	// longer than the response timeout. It wraps [context.DeadlineExceeded].
	ErrReadTimeout = errors.New("response body read timed out")
	// ErrInvalidURL is returned by [ParseURL] for anything that isn't an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
)

// UnexpectedStatusError is returned when the HTTP response status code
// is outside the 2xx range.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d %s, body: %s", e.Err, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}
