package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestGenerateWednesdays(t *testing.T) {
	got := Generate(Wednesday, d(2025, 9, 1), d(2025, 9, 21))
	assert.Equal(t, []time.Time{d(2025, 9, 3), d(2025, 9, 10), d(2025, 9, 17)}, got)
}

func TestGenerateIncludesStartWhenOnWeekday(t *testing.T) {
	start := d(2025, 9, 1)
	got := Generate(WeekdayOf(start), start, d(2025, 9, 30))
	require.NotEmpty(t, got)
	assert.Equal(t, start, got[0])
	assert.Len(t, got, 5)
}

func TestGenerateEmptyRanges(t *testing.T) {
	assert.Empty(t, Generate(Monday, d(2025, 9, 10), d(2025, 9, 1)))
	assert.Empty(t, Generate(Sunday, d(2025, 9, 1), d(2025, 9, 6)))
	assert.Empty(t, Generate(Weekday(7), d(2025, 9, 1), d(2025, 12, 1)))
	assert.Empty(t, Generate(Weekday(-1), d(2025, 9, 1), d(2025, 12, 1)))
}

func TestGenerateEndInclusive(t *testing.T) {
	got := Generate(Sunday, d(2025, 9, 1), d(2025, 9, 7))
	assert.Equal(t, []time.Time{d(2025, 9, 7)}, got)
}

func TestGenerateProperties(t *testing.T) {
	start, end := d(2024, 12, 20), d(2025, 3, 15)
	for w := Monday; w <= Sunday; w++ {
		first := Generate(w, start, end)
		second := Generate(w, start, end)
		assert.Equal(t, first, second)
		for i, date := range first {
			assert.Equal(t, w, WeekdayOf(date))
			assert.False(t, date.Before(start))
			assert.False(t, date.After(end))
			if i > 0 {
				assert.Equal(t, 7*24*time.Hour, date.Sub(first[i-1]))
			}
		}
	}
}

func TestDatesStopsEarly(t *testing.T) {
	var seen []time.Time
	for date := range Dates(Friday, d(2025, 1, 1), d(2025, 12, 31)) {
		seen = append(seen, date)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []time.Time{d(2025, 1, 3), d(2025, 1, 10)}, seen)
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(d(2025, 9, 1)))
	assert.Equal(t, Sunday, WeekdayOf(d(2025, 9, 7)))
	assert.Equal(t, "Wednesday", Wednesday.String())
}
