package services

import (
	"time"

	"memberhub/internal/pkg/dateutil"
)

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// parseDateRange parses optional yyyy-mm-dd bounds into an inclusive UTC
// range covering whole days
func parseDateRange(from, to string) (*time.Time, *time.Time) {
	var start, end *time.Time
	if from != "" {
		if t, err := time.Parse(time.DateOnly, from); err == nil {
			s := dateutil.StartOfDay(t)
			start = &s
		}
	}
	if to != "" {
		if t, err := time.Parse(time.DateOnly, to); err == nil {
			e := dateutil.EndOfDay(t)
			end = &e
		}
	}
	return start, end
}
