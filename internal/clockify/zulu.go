package clockify

import "time"

// ZuluLayout is the timestamp layout Clockify expects: UTC, second
// precision, literal Z suffix.
const ZuluLayout = "2006-01-02T15:04:05Z"

// FormatZulu renders t in UTC using ZuluLayout.
func FormatZulu(t time.Time) string {
	return t.UTC().Format(ZuluLayout)
}
