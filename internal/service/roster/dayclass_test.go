package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
)

func testClassifier() *DayClassifier {
	return NewDayClassifier([]calendar.Holiday{
		{ID: "h1", ClinicID: "c1", Date: date(2025, time.June, 6), Name: "Idul Adha"},
	})
}

func TestClassify_TagPrecedence(t *testing.T) {
	c := testClassifier()

	cases := []struct {
		name  string
		date  time.Time
		night bool
		want  roster.DayType
	}{
		{"holiday wins even with night session", date(2025, time.June, 6), true, roster.DayHoliday},
		{"day before holiday is adjacent", date(2025, time.June, 5), false, roster.DayHolidayAdjacent},
		{"saturday after holiday stays adjacent", date(2025, time.June, 7), false, roster.DayHolidayAdjacent},
		{"plain saturday is weekend", date(2025, time.June, 14), false, roster.DayWeekend},
		{"weekend outranks night", date(2025, time.June, 14), true, roster.DayWeekend},
		{"weekday night session", date(2025, time.June, 10), true, roster.DayNight},
		{"plain weekday", date(2025, time.June, 10), false, roster.DayNormal},
	}
	for _, c2 := range cases {
		t.Run(c2.name, func(t *testing.T) {
			assert.Equal(t, c2.want, c.Classify(c2.date, c2.night))
		})
	}
}

func TestClassify_HolidayIsNeverAdjacent(t *testing.T) {
	c := NewDayClassifier([]calendar.Holiday{
		{Date: date(2025, time.June, 5)},
		{Date: date(2025, time.June, 6)},
	})
	// Back-to-back holidays classify as holiday, not adjacent to each other.
	assert.Equal(t, roster.DayHoliday, c.Classify(date(2025, time.June, 5), false))
	assert.Equal(t, roster.DayHoliday, c.Classify(date(2025, time.June, 6), false))
	assert.Equal(t, roster.DayHolidayAdjacent, c.Classify(date(2025, time.June, 4), false))
}

func TestDimensions_AccrueNonExclusively(t *testing.T) {
	c := testClassifier()

	// Saturday with a night session counts toward total, night, weekend and
	// holiday-adjacent all at once.
	dims := c.Dimensions(date(2025, time.June, 7), true)
	assert.ElementsMatch(t, []roster.Dimension{
		roster.DimTotal, roster.DimNight, roster.DimWeekend, roster.DimHolidayAdjacent,
	}, dims)

	// A holiday date accrues holiday, not holiday-adjacent.
	dims = c.Dimensions(date(2025, time.June, 6), false)
	assert.ElementsMatch(t, []roster.Dimension{roster.DimTotal, roster.DimHoliday}, dims)

	// A plain weekday accrues total only.
	dims = c.Dimensions(date(2025, time.June, 10), false)
	assert.Equal(t, []roster.Dimension{roster.DimTotal}, dims)
}

func TestDayTypeOrdering(t *testing.T) {
	assert.True(t, roster.DayHoliday > roster.DayHolidayAdjacent)
	assert.True(t, roster.DayHolidayAdjacent > roster.DayWeekend)
	assert.True(t, roster.DayWeekend > roster.DayNight)
	assert.True(t, roster.DayNight > roster.DayNormal)
	assert.False(t, roster.DayNormal.PriorityDay())
	assert.True(t, roster.DayNight.PriorityDay())
}
