// Package clearfetch fetches resources that sit behind bot-protection
// layers. It is a thin entry point onto the [client] package.
package clearfetch

import (
	"time"

	"github.com/adamwoolhether/clearfetch/client"
	"github.com/adamwoolhether/clearfetch/client/challenge"
)

// DefaultTimeout bounds connecting and waiting for response headers.
const DefaultTimeout = 90 * time.Second

// NewClient builds a [client.Client] presenting the Chrome profile with
// [DefaultTimeout] applied to the connect and header phases.
// opts are applied after the defaults and take precedence.
func NewClient(opts ...client.Option) (*client.Client, error) {
	defaults := []client.Option{
		client.WithResponseTimeout(DefaultTimeout),
		client.WithProfile(challenge.Chrome),
	}

	return client.Build(append(defaults, opts...)...)
}
