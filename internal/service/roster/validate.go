package roster

import (
	"fmt"
	"sort"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

// fairnessSpreadTolerance is the widest acceptable deviation gap inside a
// department before an UNFAIR issue is raised.
const fairnessSpreadTolerance = 2.0

// Phase 4 - validation. Rechecks every invariant on the finished board,
// retries each critical headcount failure once through the fallback pool,
// and stamps carry status: unresolved criticals plus all EXCESS and UNFAIR
// issues defer to the next period; justified warnings stay closed.
func (o *Orchestrator) phaseValidate(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier) {
	// Headcount and quota findings from the earlier phases were provisional:
	// later phases may have filled or voided them. Validation re-derives
	// both kinds from the finished board.
	kept := rc.issues[:0]
	for _, issue := range rc.issues {
		if issue.Type == roster.IssueShortage || issue.Type == roster.IssueStaffShortage {
			continue
		}
		kept = append(kept, issue)
	}
	rc.issues = kept

	o.validateHeadcounts(rc, engine, classifier)
	o.validateQuotas(rc)
	o.validateFairnessSpread(rc, engine)
	o.stampCarryStatus(rc)
	rc.state = roster.StateValidated
}

func (o *Orchestrator) validateHeadcounts(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier) {
	for _, req := range rc.orderedDays() {
		// Holiday requirements are void after the override pass.
		if req.Tag == roster.DayHoliday || !isBusinessDay(req.Date) {
			continue
		}
		for _, cat := range req.Categories {
			got := rc.workAssignedForCategory(req.Date, cat.Department, cat.Category)
			date := req.Date

			// A shortage is critical below the must-fill minimum, or below
			// the soft target on a fairness-priority day. Critical
			// shortages get exactly one fallback retry before recording.
			criticalFloor := cat.MinRequired
			if req.Tag.PriorityDay() && cat.Count > criticalFloor {
				criticalFloor = cat.Count
			}
			if got < criticalFloor {
				got += o.fallbackFill(rc, engine, classifier, req, cat, criticalFloor-got)
				if got < criticalFloor {
					rc.issuef(roster.IssueShortage, roster.SeverityCritical, &date, cat.Department, cat.Category, nil,
						"%d of %d required unfilled after retry", criticalFloor-got, criticalFloor)
					continue
				}
			}

			switch {
			case got < cat.Count:
				issue := roster.UnresolvedIssue{
					Type:       roster.IssueShortage,
					Severity:   roster.SeverityWarning,
					Department: cat.Department,
					Category:   cat.Category,
					Date:       &date,
					Message:    fmt.Sprintf("assigned %d of %d required", got, cat.Count),
					Justified:  o.shortageJustified(rc, req, cat),
				}
				rc.addIssue(issue)
			case got > cat.Count:
				rc.issuef(roster.IssueExcess, roster.SeverityWarning, &date, cat.Department, cat.Category, nil,
					"%d assigned for a target of %d", got, cat.Count)
			}
		}
	}
}

// shortageJustified: a shortage is justified only when every staff member
// who could legally fill the slot is already at quota.
func (o *Orchestrator) shortageJustified(rc *RunContext, req *roster.DayRequirement, cat roster.CategoryRequirement) bool {
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if !m.Active || !m.CanFill(cat.Category) {
			continue
		}
		if m.IsFlexibleFor(cat.Category) && cat.Strategy != roster.FillNativeThenFlexible {
			continue
		}
		if _, excluded := req.ExcludedStaffIDs[m.ID]; excluded {
			continue
		}
		if a := rc.assignment(req.Date, m.ID); a != nil && (a.ShiftType.IsWork() || a.ShiftType == roster.ShiftAnnual) {
			continue
		}
		if !rc.atQuota(m, req.Date) {
			return false
		}
	}
	return true
}

// fallbackFill is the one retry a critical shortage gets: draw from anyone
// who can fill the category, flexible staff included, even past their quota.
// A resulting quota excess is recorded by the quota check; an unfillable
// must-fill slot is worse than an over-quota day.
func (o *Orchestrator) fallbackFill(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, req *roster.DayRequirement, cat roster.CategoryRequirement, need int) int {
	type candidate struct {
		m   staff.StaffMember
		dev float64
	}
	var candidates []candidate
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if !m.Active || !m.CanFill(cat.Category) {
			continue
		}
		if _, excluded := req.ExcludedStaffIDs[m.ID]; excluded {
			continue
		}
		a := rc.assignment(req.Date, m.ID)
		if a != nil && a.ShiftType != roster.ShiftOff {
			continue
		}
		candidates = append(candidates, candidate{m: m, dev: engine.Deviation(m.ID, roster.DimTotal)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dev > candidates[j].dev
	})

	shift := roster.ShiftWorkDay
	if req.HasNightSession {
		shift = roster.ShiftWorkNight
	}
	dims := classifier.Dimensions(req.Date, req.HasNightSession)

	filled := 0
	for _, c := range candidates {
		if filled == need {
			break
		}
		if a := rc.assignment(req.Date, c.m.ID); a != nil {
			rc.convert(a, shift)
			a.Category = cat.Category
			a.IsFlexible = c.m.IsFlexibleFor(cat.Category)
		} else {
			rc.assign(c.m, req.Date, shift, cat.Category, c.m.IsFlexibleFor(cat.Category))
		}
		engine.Record(c.m.ID, dims, 1)
		filled++
	}
	return filled
}

// validateQuotas checks WORK+ANNUAL against each member's weekly quota.
// Weeks containing a holiday are exempt: the override pass is allowed to
// break them.
func (o *Orchestrator) validateQuotas(rc *RunContext) {
	for _, wk := range rc.weeks() {
		if _, exempt := rc.holidayWeeks[dateKey(wk)]; exempt {
			continue
		}
		weekDays := o.weekBusinessDays(rc, wk)
		if len(weekDays) == 0 {
			continue
		}
		for _, id := range rc.sortedStaffIDs() {
			m := rc.staffByID[id]
			if !m.Active {
				continue
			}
			worked := rc.workedInWeek(wk, m.ID)
			quota := m.WeeklyQuota()
			week := wk
			switch {
			case worked < quota:
				if o.hasConfirmedOffLeave(rc, m, weekDays) {
					issue := roster.UnresolvedIssue{
						Type:       roster.IssueStaffShortage,
						Severity:   roster.SeverityInfo,
						StaffID:    &m.ID,
						Department: m.Department,
						Category:   m.Category,
						Date:       &week,
						Message:    "under weekly quota due to approved leave",
						Justified:  true,
					}
					rc.addIssue(issue)
					continue
				}
				rc.issuef(roster.IssueStaffShortage, roster.SeverityCritical, &week, m.Department, m.Category, &m.ID,
					"worked %d of weekly quota %d", worked, quota)
			case worked > quota:
				rc.issuef(roster.IssueExcess, roster.SeverityWarning, &week, m.Department, m.Category, &m.ID,
					"worked %d over weekly quota %d", worked, quota)
			}
		}
	}
}

// validateFairnessSpread raises an informational UNFAIR issue when any
// enabled dimension's deviation gap inside a department exceeds tolerance.
func (o *Orchestrator) validateFairnessSpread(rc *RunContext, engine *FairnessEngine) {
	depts := make(map[string][]string)
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if m.Active {
			depts[m.Department] = append(depts[m.Department], id)
		}
	}
	deptNames := make([]string, 0, len(depts))
	for d := range depts {
		deptNames = append(deptNames, d)
	}
	sort.Strings(deptNames)

	for _, dept := range deptNames {
		ids := depts[dept]
		if len(ids) < 2 {
			continue
		}
		for _, dim := range roster.AllDimensions {
			if !engine.Enabled(dim) {
				continue
			}
			lo, hi := engine.Deviation(ids[0], dim), engine.Deviation(ids[0], dim)
			for _, id := range ids[1:] {
				d := engine.Deviation(id, dim)
				if d < lo {
					lo = d
				}
				if d > hi {
					hi = d
				}
			}
			if hi-lo > fairnessSpreadTolerance {
				rc.issuef(roster.IssueUnfair, roster.SeverityInfo, nil, dept, "", nil,
					"%s deviation spread %.1f exceeds tolerance %.1f", dim, hi-lo, fairnessSpreadTolerance)
			}
		}
	}
}

// stampCarryStatus finalizes each issue's carry behavior: unresolved
// criticals and all EXCESS/UNFAIR issues become context for the next
// period's run; justified warnings close here.
func (o *Orchestrator) stampCarryStatus(rc *RunContext) {
	for i := range rc.issues {
		issue := &rc.issues[i]
		switch {
		case issue.Severity == roster.SeverityCritical:
			issue.CarryStatus = roster.CarryNextPeriod
		case issue.Type == roster.IssueExcess || issue.Type == roster.IssueUnfair:
			issue.CarryStatus = roster.CarryNextPeriod
		default:
			issue.CarryStatus = roster.CarryNone
		}
	}
}
