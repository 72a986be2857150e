package timer

import (
	"strings"
	"time"

	"dcl/internal/services"
)

var sinceLayouts = []string{"15:04:05", "15:04"}

// ParseSince interprets a local time of day (HH:MM or HH:MM:SS) as that
// time on now's date, in now's location. An empty value returns now.
func ParseSince(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	for _, layout := range sinceLayouts {
		clock, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		year, month, day := now.Date()
		return time.Date(year, month, day, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), now.Location()), nil
	}
	return time.Time{}, services.Wrap(
		services.ErrConfiguration,
		"parse --since",
		"expected a time of day as HH:MM or HH:MM:SS, got "+`"`+value+`"`,
		nil,
	)
}
