package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/adamwoolhether/clearfetch/internal/validate"
	"github.com/google/go-cmp/cmp"
)

type target struct {
	URL     string `json:"url" validate:"required,http_url"`
	Workers int    `json:"workers" validate:"gte=0,lte=8"`
	Mode    string `json:"mode" validate:"omitempty,oneof=fast slow"`
}

func TestCheck(t *testing.T) {
	testCases := []struct {
		name      string
		val       target
		expFields []string
	}{
		{
			name: "valid",
			val:  target{URL: "https://example.com", Workers: 2, Mode: "fast"},
		},
		{
			name:      "missing url",
			val:       target{},
			expFields: []string{"url"},
		},
		{
			name:      "bad scheme and range",
			val:       target{URL: "ftp://example.com", Workers: 9, Mode: "medium"},
			expFields: []string{"url", "workers", "mode"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Check(tc.val)

			if tc.expFields == nil {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %T: %v", err, err)
			}
			if diff := cmp.Diff(tc.expFields, fe.Fields()); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheck_Messages(t *testing.T) {
	err := validate.Check(target{Workers: 9})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	msg := err.Error()
	for _, want := range []string{"url: This field is required", "workers: workers must be 8 or less"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}
