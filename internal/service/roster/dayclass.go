package roster

import (
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
)

// DayClassifier tags each date with its single fairness-relevant day type.
// A date may satisfy several dimensions at once for accrual purposes, but
// ordering always uses the one highest tag:
// holiday > holiday_adjacent > weekend > night > normal.
type DayClassifier struct {
	holidays map[string]struct{}
}

func NewDayClassifier(holidays []calendar.Holiday) *DayClassifier {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[dateKey(midnight(h.Date))] = struct{}{}
	}
	return &DayClassifier{holidays: set}
}

func (c *DayClassifier) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[dateKey(midnight(date))]
	return ok
}

// isHolidayAdjacent reports whether date is a non-holiday exactly one day
// before or after a holiday.
func (c *DayClassifier) isHolidayAdjacent(date time.Time) bool {
	if c.IsHoliday(date) {
		return false
	}
	return c.IsHoliday(date.AddDate(0, 0, -1)) || c.IsHoliday(date.AddDate(0, 0, 1))
}

// Classify returns the single day type tag for a date.
func (c *DayClassifier) Classify(date time.Time, hasNightSession bool) roster.DayType {
	date = midnight(date)
	switch {
	case c.IsHoliday(date):
		return roster.DayHoliday
	case c.isHolidayAdjacent(date):
		return roster.DayHolidayAdjacent
	case date.Weekday() == time.Saturday:
		return roster.DayWeekend
	case hasNightSession:
		return roster.DayNight
	default:
		return roster.DayNormal
	}
}

// Dimensions returns every fairness dimension a worked shift on this date
// accrues to. Unlike Classify this is not exclusive: a Saturday with a night
// session counts toward both weekend and night.
func (c *DayClassifier) Dimensions(date time.Time, hasNightSession bool) []roster.Dimension {
	date = midnight(date)
	dims := []roster.Dimension{roster.DimTotal}
	if hasNightSession {
		dims = append(dims, roster.DimNight)
	}
	if date.Weekday() == time.Saturday {
		dims = append(dims, roster.DimWeekend)
	}
	if c.IsHoliday(date) {
		dims = append(dims, roster.DimHoliday)
	} else if c.isHolidayAdjacent(date) {
		dims = append(dims, roster.DimHolidayAdjacent)
	}
	return dims
}
