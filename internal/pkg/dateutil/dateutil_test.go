package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", date(2024, 1, 15), 3, date(2024, 4, 15)},
		{"year rollover", date(2024, 11, 10), 3, date(2025, 2, 10)},
		{"clamp leap february", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"clamp february", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"clamp thirty day month", date(2024, 3, 31), 1, date(2024, 4, 30)},
		{"twelve months", date(2024, 2, 29), 12, date(2025, 2, 28)},
		{"zero", date(2024, 6, 1), 0, date(2024, 6, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}

func TestAddMonths_KeepsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 1, 15, 13, 45, 10, 0, time.UTC)
	got := AddMonths(in, 1)
	assert.Equal(t, time.Date(2024, 2, 15, 13, 45, 10, 0, time.UTC), got)
}

func TestAddMonths_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1990, 2100).Draw(t, "year")
		month := time.Month(rapid.IntRange(1, 12).Draw(t, "month"))
		day := rapid.IntRange(1, DaysIn(year, month)).Draw(t, "day")
		n := rapid.IntRange(0, 120).Draw(t, "months")

		in := date(year, month, day)
		got := AddMonths(in, n)

		wantMonths := (year*12 + int(month) - 1) + n
		gotMonths := got.Year()*12 + int(got.Month()) - 1
		if gotMonths != wantMonths {
			t.Fatalf("AddMonths(%s, %d) landed in wrong month: %s", in, n, got)
		}
		if day <= DaysIn(got.Year(), got.Month()) {
			if got.Day() != day {
				t.Fatalf("AddMonths(%s, %d) changed the day: %s", in, n, got)
			}
		} else if got.Day() != DaysIn(got.Year(), got.Month()) {
			t.Fatalf("AddMonths(%s, %d) did not clamp to month end: %s", in, n, got)
		}
	})
}

func TestDayBounds(t *testing.T) {
	in := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2024, 5, 17), StartOfDay(in))
	assert.Equal(t, date(2024, 5, 1), StartOfMonth(in))
	assert.Equal(t, date(2024, 5, 18).Add(-time.Nanosecond), EndOfDay(in))
}
