// Package download streams HTTP response bodies to disk in fixed-size
// chunks, with progress reporting and optional checksum validation.
//
// [Handle] writes the body to a temporary file alongside the destination
// path and renames it on success, so a failed transfer never leaves a
// partial file behind:
//
//	err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithChunkSize(32<<10),
//		download.WithProgress(bar),
//	)
//
// Most callers should use [github.com/adamwoolhether/clearfetch/client.Client.Download],
// which invokes Handle after the status checks.
package download
