package fetch

import (
	"fmt"
	"time"

	"github.com/adamwoolhether/clearfetch"
	"github.com/adamwoolhether/clearfetch/client/download"
	"github.com/adamwoolhether/clearfetch/internal/validate"
)

// Stdout is the destination reported when the body is written to stdout.
const Stdout = "-"

// Config holds the settings of one run.
type Config struct {
	URL       string        `json:"url" validate:"required,http_url"`
	Output    string        `json:"output"`
	Timeout   time.Duration `json:"timeout" validate:"gt=0"`
	ChunkSize int           `json:"chunkSize" validate:"gt=0,lte=67108864"`
	RPS       float64       `json:"rate" validate:"gte=0"`
	Burst     int           `json:"burst" validate:"gte=0"`
	UserAgent string        `json:"userAgent"`
	Browser   string        `json:"browser" validate:"required,oneof=chrome firefox"`
	SHA256    string        `json:"sha256" validate:"omitempty,len=64,hexadecimal"`
	Quiet     bool          `json:"quiet"`
}

// DefaultConfig returns a Config with every optional field at its default.
func DefaultConfig() Config {
	return Config{
		Timeout:   clearfetch.DefaultTimeout,
		ChunkSize: download.DefaultChunkSize,
		Browser:   "chrome",
	}
}

// Validate checks cfg against its field constraints.
func (cfg Config) Validate() error {
	if err := validate.Check(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// destination names where the body is written.
func (cfg Config) destination() string {
	if cfg.Output == "" {
		return Stdout
	}

	return cfg.Output
}

// Result describes a completed run.
type Result struct {
	Bytes       int64
	Destination string
	ContentType string
}
