package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for [Handle].
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	reporter     Reporter
	chunkSize    int
	skipExisting bool
}

// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}
		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}
		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

// WithProgress hands the running byte count to r after every chunk.
func WithProgress(r Reporter) Option {
	return func(opts *options) error {
		if r == nil {
			return errors.New("reporter must not be nil")
		}
		opts.reporter = r
		return nil
	}
}

// WithChunkSize sets the size of each block read from the body.
func WithChunkSize(n int) Option {
	return func(opts *options) error {
		if n <= 0 {
			return errors.New("chunk size must be greater than zero")
		}
		opts.chunkSize = n
		return nil
	}
}

// WithSkipExisting causes Handle to return nil immediately when
// the destination file already exists.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}
