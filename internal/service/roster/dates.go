package roster

import "time"

// The engine works on civil dates. Every date is normalized to UTC midnight
// before use so map keys and comparisons are stable regardless of the
// timezone the row was scanned with.

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// weekStart returns the Monday of the calendar week containing t.
func weekStart(t time.Time) time.Time {
	t = midnight(t)
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset)
}

// expandToWeeks widens [start,end] to full containing calendar weeks,
// Monday through Sunday.
func expandToWeeks(start, end time.Time) (time.Time, time.Time) {
	from := weekStart(start)
	to := weekStart(end).AddDate(0, 0, 6)
	return from, to
}

// isBusinessDay reports whether the clinic is open on t. Sunday is the only
// non-business day; Saturday is a working (weekend-dimension) day.
func isBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Sunday
}

// eachDay calls fn for every date in [from,to] inclusive.
func eachDay(from, to time.Time, fn func(d time.Time)) {
	for d := midnight(from); !d.After(midnight(to)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
