package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"dcl/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConfiguration, "load config", "parse failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"load config", "parse failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", nil)
	if err == nil || err.Error() != "operation failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"configuration", services.Wrap(services.ErrConfiguration, "bucket", "unknown", nil), services.ExitConfiguration},
		{"not found", fmt.Errorf("resolve: %w", services.ErrNotFound), services.ExitLookup},
		{"ambiguous", fmt.Errorf("resolve: %w", services.ErrAmbiguous), services.ExitLookup},
		{"remote", fmt.Errorf("start: %w", services.ErrRemote), services.ExitRemote},
		{"unavailable", fmt.Errorf("dial: %w", services.ErrUnavailable), services.ExitRemote},
		{"other", errors.New("boom"), services.ExitFailure},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("%s: expected exit code %d, got %d", tc.name, tc.want, got)
		}
	}
}
