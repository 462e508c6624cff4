package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// defaultFileMode applies to destinations that don't exist yet.
const defaultFileMode fs.FileMode = 0o644

// Handle streams body in fixed-size chunks to destPath. contentLength is
// negative when unknown; otherwise the byte count must match it. The number
// of bytes written is returned.
//
// A regular file, or a missing one, is replaced atomically: data lands in a
// temp file in the same directory which is renamed onto the destination on
// success and removed on failure. Symlinks are resolved so their target is
// replaced, and an existing file keeps its permission bits. Anything else at
// destPath, such as a FIFO or a device node, is opened and written in place.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) (int64, error) {
	opts := options{chunkSize: DefaultChunkSize}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return 0, fmt.Errorf("applying option: %w", err)
		}
	}

	if opts.skipExisting {
		if _, err := os.Stat(destPath); err == nil {
			logger.Info("skipping existing file", "path", destPath)
			return 0, nil
		}
	}

	dest, err := inspect(destPath)
	if err != nil {
		return 0, err
	}

	if contentLength < 0 {
		logger.Warn("content length unknown, progress percentage unavailable", "path", destPath)
	} else {
		logger.Info("starting download", "path", destPath, "total", contentLength)
	}

	if opts.reporter != nil {
		defer opts.reporter.Finish()
	}

	if dest.inPlace {
		return writeInPlace(ctx, body, contentLength, dest, logger, opts)
	}

	return replace(ctx, body, contentLength, dest, logger, opts)
}

// destination describes where and how a download is written.
type destination struct {
	path    string
	mode    fs.FileMode
	inPlace bool
}

func inspect(destPath string) (destination, error) {
	info, err := os.Stat(destPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// A dangling symlink is written through so its target gets created.
		if li, lerr := os.Lstat(destPath); lerr == nil && li.Mode()&fs.ModeSymlink != 0 {
			return destination{path: destPath, mode: defaultFileMode, inPlace: true}, nil
		}
		return destination{path: destPath, mode: defaultFileMode}, nil
	case err != nil:
		return destination{}, fmt.Errorf("inspecting destination: %w", err)
	case info.IsDir():
		return destination{}, fmt.Errorf("destination %q is a directory", destPath)
	case !info.Mode().IsRegular():
		return destination{path: destPath, mode: info.Mode().Perm(), inPlace: true}, nil
	}

	resolved, err := filepath.EvalSymlinks(destPath)
	if err != nil {
		return destination{}, fmt.Errorf("resolving destination: %w", err)
	}

	return destination{path: resolved, mode: info.Mode().Perm()}, nil
}

// replace streams into a temp file renamed onto dest.path on success.
func replace(ctx context.Context, body io.Reader, contentLength int64, dest destination, logger *slog.Logger, opts options) (int64, error) {
	file, err := os.CreateTemp(filepath.Dir(dest.path), ".clearfetch-dl-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}

		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	n, err := copyBody(ctx, file, body, contentLength, logger, opts)
	if err != nil {
		return n, err
	}

	if err := file.Chmod(dest.mode); err != nil {
		return n, fmt.Errorf("setting file mode: %w", err)
	}

	if err := file.Sync(); err != nil {
		return n, fmt.Errorf("syncing temp file: %w", err)
	}

	if err := file.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(file.Name(), dest.path); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return n, nil
}

// writeInPlace truncates and writes dest.path directly. Bytes already
// written stay there when the download fails.
func writeInPlace(ctx context.Context, body io.Reader, contentLength int64, dest destination, logger *slog.Logger, opts options) (int64, error) {
	file, err := os.OpenFile(dest.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, dest.mode)
	if err != nil {
		return 0, fmt.Errorf("opening destination: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing destination", "error", err)
		}
	}()

	n, err := copyBody(ctx, file, body, contentLength, logger, opts)
	if err != nil {
		return n, err
	}

	if err := file.Close(); err != nil {
		return n, fmt.Errorf("closing destination: %w", err)
	}

	return n, nil
}

// copyBody moves body into w chunk by chunk, then checks the length and
// the optional checksum.
func copyBody(ctx context.Context, w io.Writer, body io.Reader, contentLength int64, logger *slog.Logger, opts options) (int64, error) {
	if opts.checksum != nil {
		w = io.MultiWriter(w, opts.checksum)
	}

	w = &progressWriter{
		w:         w,
		reporter:  opts.reporter,
		logger:    logger,
		total:     contentLength,
		startTime: time.Now(),
	}

	// Neither side implements WriterTo/ReaderFrom, so CopyBuffer moves
	// at most chunkSize bytes per write.
	reader := &contextReader{ctx: ctx, r: body}
	n, err := io.CopyBuffer(w, reader, make([]byte, opts.chunkSize))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return n, fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}
		return n, fmt.Errorf("copying file body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return n, &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return n, err
	}

	return n, nil
}

// contextReader checks ctx before every read so a cancelled
// download stops at the next chunk boundary.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
