package roster

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

// RunContext is the mutable state of a single generation run: the assignment
// cells, weekly quota counters and the accumulated issue list. It is passed
// explicitly through every phase so each phase stays testable in isolation
// and the single-writer-per-period rule holds.
type RunContext struct {
	state roster.RunState
	rng   *rand.Rand

	period     roster.SchedulePeriod
	start, end time.Time // period expanded to full containing weeks

	staffByID map[string]staff.StaffMember
	days      map[string]*roster.DayRequirement

	// cells is dateKey -> staffID -> assignment.
	cells map[string]map[string]*roster.Assignment
	// weekly is weekStartKey -> staffID -> WORK+ANNUAL count.
	weekly map[string]map[string]int

	issues       []roster.UnresolvedIssue
	holidayWeeks map[string]struct{}
}

func newRunContext(period roster.SchedulePeriod, members []staff.StaffMember, days map[string]*roster.DayRequirement, rng *rand.Rand) *RunContext {
	start, end := expandToWeeks(period.StartDate, period.EndDate)
	byID := make(map[string]staff.StaffMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return &RunContext{
		state:        roster.StatePrepared,
		rng:          rng,
		period:       period,
		start:        start,
		end:          end,
		staffByID:    byID,
		days:         days,
		cells:        make(map[string]map[string]*roster.Assignment),
		weekly:       make(map[string]map[string]int),
		holidayWeeks: make(map[string]struct{}),
	}
}

func (rc *RunContext) State() roster.RunState { return rc.state }

// weeks returns the Monday of every calendar week in the expanded range.
func (rc *RunContext) weeks() []time.Time {
	var out []time.Time
	for w := rc.start; !w.After(rc.end); w = w.AddDate(0, 0, 7) {
		out = append(out, w)
	}
	return out
}

// businessDays returns every business day in the expanded range, ascending.
func (rc *RunContext) businessDays() []time.Time {
	var out []time.Time
	eachDay(rc.start, rc.end, func(d time.Time) {
		if isBusinessDay(d) {
			out = append(out, d)
		}
	})
	return out
}

// orderedDays returns the run's requirement dates sorted for the priority
// pass: highest day-type tag first, earlier date first within a tag.
func (rc *RunContext) orderedDays() []*roster.DayRequirement {
	out := make([]*roster.DayRequirement, 0, len(rc.days))
	for _, req := range rc.days {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tag != out[j].Tag {
			return out[i].Tag > out[j].Tag
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (rc *RunContext) assignment(date time.Time, staffID string) *roster.Assignment {
	return rc.cells[dateKey(date)][staffID]
}

// assign places a shift into a staff/date cell and maintains the weekly
// quota counter. It overwrites nothing: callers check the cell first.
func (rc *RunContext) assign(m staff.StaffMember, date time.Time, shift roster.ShiftType, category string, flexible bool) *roster.Assignment {
	k := dateKey(date)
	if rc.cells[k] == nil {
		rc.cells[k] = make(map[string]*roster.Assignment)
	}
	a := &roster.Assignment{
		PeriodID:   rc.period.ID,
		StaffID:    m.ID,
		Date:       date,
		ShiftType:  shift,
		Department: m.Department,
		Category:   category,
		IsFlexible: flexible,
	}
	rc.cells[k][m.ID] = a
	if shift.IsWork() || shift == roster.ShiftAnnual {
		rc.bumpWeekly(date, m.ID, 1)
	}
	return a
}

// convert changes the shift type of an existing cell, adjusting the quota
// counter when the cell moves in or out of the WORK+ANNUAL bucket.
func (rc *RunContext) convert(a *roster.Assignment, to roster.ShiftType) {
	before := a.ShiftType.IsWork() || a.ShiftType == roster.ShiftAnnual
	after := to.IsWork() || to == roster.ShiftAnnual
	if before && !after {
		rc.bumpWeekly(a.Date, a.StaffID, -1)
	}
	if !before && after {
		rc.bumpWeekly(a.Date, a.StaffID, 1)
	}
	a.ShiftType = to
}

func (rc *RunContext) bumpWeekly(date time.Time, staffID string, delta int) {
	wk := dateKey(weekStart(date))
	if rc.weekly[wk] == nil {
		rc.weekly[wk] = make(map[string]int)
	}
	rc.weekly[wk][staffID] += delta
}

// workedInWeek returns a staff member's WORK+ANNUAL count for the week
// containing date.
func (rc *RunContext) workedInWeek(date time.Time, staffID string) int {
	return rc.weekly[dateKey(weekStart(date))][staffID]
}

// atQuota reports whether the member already owes no more days in the week
// containing date.
func (rc *RunContext) atQuota(m staff.StaffMember, date time.Time) bool {
	return rc.workedInWeek(date, m.ID) >= m.WeeklyQuota()
}

// workAssignedForCategory counts worked shifts filling the category on date.
func (rc *RunContext) workAssignedForCategory(date time.Time, dept, category string) int {
	n := 0
	for _, a := range rc.cells[dateKey(date)] {
		if a.ShiftType.IsWork() && a.Department == dept && a.Category == category {
			n++
		}
	}
	return n
}

// offCount counts OFF assignments on a date.
func (rc *RunContext) offCount(date time.Time) int {
	n := 0
	for _, a := range rc.cells[dateKey(date)] {
		if a.ShiftType == roster.ShiftOff {
			n++
		}
	}
	return n
}

func (rc *RunContext) addIssue(issue roster.UnresolvedIssue) {
	issue.PeriodID = rc.period.ID
	rc.issues = append(rc.issues, issue)
}

func (rc *RunContext) issuef(t roster.IssueType, sev roster.IssueSeverity, date *time.Time, dept, category string, staffID *string, format string, args ...any) {
	rc.addIssue(roster.UnresolvedIssue{
		Type:       t,
		Severity:   sev,
		StaffID:    staffID,
		Department: dept,
		Category:   category,
		Date:       date,
		Message:    fmt.Sprintf(format, args...),
	})
}

// sortedStaffIDs returns every known staff id in stable order. Map iteration
// order must never leak into assignment decisions.
func (rc *RunContext) sortedStaffIDs() []string {
	out := make([]string, 0, len(rc.staffByID))
	for id := range rc.staffByID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// assignments flattens the cells into a deterministic slice ordered by date
// then staff id.
func (rc *RunContext) assignments() []roster.Assignment {
	var out []roster.Assignment
	eachDay(rc.start, rc.end, func(d time.Time) {
		cells := rc.cells[dateKey(d)]
		if len(cells) == 0 {
			return
		}
		ids := make([]string, 0, len(cells))
		for id := range cells {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, *cells[id])
		}
	})
	return out
}

// shuffle randomizes slice order with the run's injected rng so equal-ranked
// candidates tie-break reproducibly for a given seed.
func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
