package listing

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the dd/mm/yyyy layout used by the source page.
const DateLayout = "02/01/2006"

// TimestampLayout renders generated_at with an explicit +00:00 offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// ErrInvalidDate is returned when a row's date cannot be parsed.
// Extraction already checks the pattern, so seeing it means a date like
// 31/02/2025 slipped through.
var ErrInvalidDate = errors.New("invalid listing date")

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// IsDate reports whether s has the exact dd/mm/yyyy shape.
func IsDate(s string) bool {
	return datePattern.MatchString(s)
}

// ParseDate parses a dd/mm/yyyy string as midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// Midnight returns the start of t's calendar day in UTC.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Cutoff returns the inclusive lower bound for admission: midnight UTC of the
// day that lies window before now. With a 48h window a listing dated two
// calendar days ago still passes even late in the day.
func Cutoff(now time.Time, window time.Duration) time.Time {
	return Midnight(now.Add(-window))
}

// FormatTimestamp renders t in UTC at second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}
