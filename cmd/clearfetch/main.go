// Command clearfetch downloads a URL through a browser-like, challenge-aware
// HTTP client, writing the body to a file or stdout.
//
//	clearfetch <URL> [output_file]
//
// Exit codes: 0 success, 1 usage or other failure, 2 bot challenge,
// 3 HTTP status, 4 network.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}
