package fetch_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/adamwoolhether/clearfetch/fetch"
)

func ExampleRun() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "plain text body")
	}))
	defer ts.Close()

	cfg := fetch.DefaultConfig()
	cfg.URL = ts.URL

	res, err := fetch.Run(context.Background(), cfg, os.Stdout, io.Discard, quietLogger())
	if err != nil {
		fmt.Println("exit code:", fetch.ExitCode(err))
		return
	}

	fmt.Println(res.Bytes, res.Destination)
	// Output:
	// plain text body
	// 16 -
}

func ExampleExitCode() {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cfg := fetch.DefaultConfig()
	cfg.URL = ts.URL + "/missing"

	_, err := fetch.Run(context.Background(), cfg, io.Discard, io.Discard, quietLogger())
	fmt.Println(fetch.ExitCode(err))
	// Output: 3
}
