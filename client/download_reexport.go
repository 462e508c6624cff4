package client

import (
	"hash"

	"github.com/adamwoolhether/clearfetch/client/challenge"
	"github.com/adamwoolhether/clearfetch/client/download"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from [download] and [challenge].
// ————————————————————————————————————————————————————————————————————

type (
	// DownloadOption configures [Client.Download].
	DownloadOption = download.Option

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// ProgressReporter receives the running byte count after every chunk.
	ProgressReporter = download.Reporter

	// ChallengeError describes a challenge page served instead of the resource.
	ChallengeError = challenge.Error
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrChallenge indicates bot protection served a challenge instead of the resource.
	ErrChallenge = challenge.ErrChallenge

	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled
)

// ————————————————————————————————————————————————————————————————————
// Download option forwarding functions
// ————————————————————————————————————————————————————————————————————

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithProgress reports the running byte count to r after every chunk.
func WithProgress(r ProgressReporter) DownloadOption { return download.WithProgress(r) }

// WithChunkSize sets the size of each block streamed to disk.
func WithChunkSize(n int) DownloadOption { return download.WithChunkSize(n) }

// WithSkipExisting causes a download to return immediately when
// the destination file already exists.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }
