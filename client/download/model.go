package download

import (
	"errors"
	"fmt"
)

// DefaultChunkSize is the size of each block read from the body.
const DefaultChunkSize = 8 << 10 // 8KB

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrDownloadCancelled     = errors.New("download cancelled")
)

// Reporter receives the running byte count after every chunk. total is
// negative when the server didn't announce a length.
type Reporter interface {
	Update(current, total int64)
	Finish()
}

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
