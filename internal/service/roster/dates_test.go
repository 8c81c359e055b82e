package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2025, time.June, 2), date(2025, time.June, 2)},  // Monday maps to itself
		{date(2025, time.June, 4), date(2025, time.June, 2)},  // Wednesday
		{date(2025, time.June, 7), date(2025, time.June, 2)},  // Saturday
		{date(2025, time.June, 8), date(2025, time.June, 2)},  // Sunday stays in the same week
		{date(2025, time.June, 9), date(2025, time.June, 9)},  // next Monday
	}
	for _, c := range cases {
		assert.Equal(t, c.want, weekStart(c.in), "weekStart(%s)", c.in.Format("2006-01-02"))
	}
}

func TestExpandToWeeks(t *testing.T) {
	// A mid-week period widens to full Monday-Sunday weeks on both ends.
	from, to := expandToWeeks(date(2025, time.June, 4), date(2025, time.June, 17))
	assert.Equal(t, date(2025, time.June, 2), from)
	assert.Equal(t, date(2025, time.June, 22), to)

	// An exact Monday-Sunday range is unchanged.
	from, to = expandToWeeks(date(2025, time.June, 2), date(2025, time.June, 8))
	assert.Equal(t, date(2025, time.June, 2), from)
	assert.Equal(t, date(2025, time.June, 8), to)
}

func TestIsBusinessDay(t *testing.T) {
	assert.True(t, isBusinessDay(date(2025, time.June, 2)))  // Monday
	assert.True(t, isBusinessDay(date(2025, time.June, 7)))  // Saturday is a working day
	assert.False(t, isBusinessDay(date(2025, time.June, 8))) // Sunday
}

func TestMidnightNormalizesTimezone(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	in := time.Date(2025, time.June, 4, 23, 30, 0, 0, loc)
	got := midnight(in)
	assert.Equal(t, date(2025, time.June, 4), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestEachDayInclusive(t *testing.T) {
	var got []string
	eachDay(date(2025, time.June, 2), date(2025, time.June, 4), func(d time.Time) {
		got = append(got, dateKey(d))
	})
	assert.Equal(t, []string{"2025-06-02", "2025-06-03", "2025-06-04"}, got)
}
