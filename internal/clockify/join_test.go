package clockify_test

import (
	"testing"
	"time"

	"dcl/internal/clockify"
)

func TestSlashJoin(t *testing.T) {
	cases := []struct {
		name  string
		parts []string
		want  string
	}{
		{"empty", nil, ""},
		{"single unchanged", []string{"http://x/"}, "http://x/"},
		{"plain", []string{"http://x", "y"}, "http://x/y"},
		{"both slashes", []string{"http://x/", "/y/"}, "http://x/y"},
		{"trailing on last", []string{"http://x/", "y/"}, "http://x/y"},
		{"middle trimmed", []string{"http://x/api/v1/", "/workspaces/", "ws-1", "/tags"}, "http://x/api/v1/workspaces/ws-1/tags"},
		{"leading kept on first", []string{"/workspaces", "ws-1"}, "/workspaces/ws-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clockify.SlashJoin(tc.parts...); got != tc.want {
				t.Fatalf("SlashJoin(%q) = %q, want %q", tc.parts, got, tc.want)
			}
		})
	}
}

func TestFormatZulu(t *testing.T) {
	if got := clockify.FormatZulu(time.Unix(1640995200, 0).UTC()); got != "2022-01-01T00:00:00Z" {
		t.Fatalf("unexpected zulu for epoch: %q", got)
	}

	est := time.FixedZone("EST", -5*60*60)
	local := time.Date(2021, 12, 31, 19, 30, 15, 999, est)
	if got := clockify.FormatZulu(local); got != "2022-01-01T00:30:15Z" {
		t.Fatalf("expected conversion to UTC, got %q", got)
	}
}
