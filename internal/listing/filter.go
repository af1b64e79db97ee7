package listing

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// Filter admits rows for one location within a trailing window.
type Filter struct {
	Location string
	Window   time.Duration
}

// NewFilter creates a Filter for the given location and window.
func NewFilter(location string, window time.Duration) *Filter {
	return &Filter{
		Location: location,
		Window:   window,
	}
}

// Admit reports whether row passes both the location and the time predicate.
// The location check runs first, so rows for other locations never have their
// date parsed.
func (f *Filter) Admit(row Row, now time.Time) (bool, error) {
	if !strings.EqualFold(row.Location, f.Location) {
		return false, nil
	}

	date, err := ParseDate(row.Date)
	if err != nil {
		return false, err
	}

	return !date.Before(Cutoff(now, f.Window)), nil
}

// Apply collects the admitted rows in source order.
// It stops at the first date that cannot be parsed.
func (f *Filter) Apply(rows iter.Seq[Row], now time.Time) ([]Row, error) {
	admitted := make([]Row, 0)
	for row := range rows {
		ok, err := f.Admit(row, now)
		if err != nil {
			return nil, fmt.Errorf("filtering %s (%s): %w", row.Company, row.Ticker, err)
		}
		if ok {
			admitted = append(admitted, row)
		}
	}
	return admitted, nil
}
