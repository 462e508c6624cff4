//go:build unix

package download

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

func TestHandle_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.bin")
	link := filepath.Join(dir, "link.bin")

	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("target.bin", link); err != nil {
		t.Fatal(err)
	}

	if _, err := Handle(t.Context(), strings.NewReader("new content"), 11, link, discardLogger()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("lstat link: %v", err)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("expected the link to survive, got mode %v", info.Mode())
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if string(got) != "new content" {
		t.Errorf("expected the target to be written, got %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestHandle_DanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "created.bin")
	link := filepath.Join(dir, "link.bin")

	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if _, err := Handle(t.Context(), strings.NewReader("data"), 4, link, discardLogger()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("expected the target to be created, got %q", got)
	}

	info, err := os.Lstat(link)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("expected the link to survive, got %v, %v", info, err)
	}
}

func TestHandle_FIFO(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "pipe")
	if err := syscall.Mkfifo(fifo, 0o600); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}

	got := make(chan string, 1)
	go func() {
		f, err := os.Open(fifo)
		if err != nil {
			got <- "open: " + err.Error()
			return
		}
		defer f.Close()

		b, _ := io.ReadAll(f)
		got <- string(b)
	}()

	const body = "streamed through a pipe"
	if _, err := Handle(t.Context(), strings.NewReader(body), int64(len(body)), fifo, discardLogger(), WithChunkSize(4)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if s := <-got; s != body {
		t.Errorf("reader got %q, want %q", s, body)
	}

	info, err := os.Lstat(fifo)
	if err != nil {
		t.Fatalf("lstat fifo: %v", err)
	}
	if info.Mode()&fs.ModeNamedPipe == 0 {
		t.Errorf("expected the FIFO to remain, got mode %v", info.Mode())
	}
	assertNoTempFiles(t, dir)
}

func TestHandle_FileMode(t *testing.T) {
	t.Run("existing file keeps its mode", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "private.bin")
		if err := os.WriteFile(dest, []byte("secret"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(dest, 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := Handle(t.Context(), strings.NewReader("replaced"), 8, dest, discardLogger()); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		info, err := os.Stat(dest)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected mode 0600 to be kept, got %o", perm)
		}
	})

	t.Run("new file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "fresh.bin")

		if _, err := Handle(t.Context(), strings.NewReader("new"), 3, dest, discardLogger()); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		info, err := os.Stat(dest)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != defaultFileMode {
			t.Errorf("expected mode %o, got %o", defaultFileMode, perm)
		}
	})
}
