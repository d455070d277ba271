package journal

import (
	"strings"
	"time"
)

// DateLayout is the canonical entry date form.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date. Full ISO timestamps are accepted by
// truncating at the time separator, matching how entry dates were stored
// by older exports.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	return time.Parse(DateLayout, s)
}

// Today returns the current local date in YYYY-MM-DD form.
func Today() string {
	return time.Now().Format(DateLayout)
}

// CompareDates orders two YYYY-MM-DD dates by calendar value, not string
// value. Unparseable dates sort after valid ones; two unparseable dates
// fall back to string order so the sort stays deterministic.
func CompareDates(a, b string) int {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	switch {
	case errA == nil && errB == nil:
		return ta.Compare(tb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// FormatLong renders a date as "January 2, 2006" for cover date ranges.
// Unparseable input is returned unchanged rather than erroring.
func FormatLong(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

// FormatHeading renders a date as "Monday, January 2, 2006" for entry
// headings.
func FormatHeading(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006")
}
