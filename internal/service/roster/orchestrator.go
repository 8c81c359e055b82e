package roster

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

// Inputs is the fully batched in-memory snapshot a run works on. Everything
// is read once before the assignment loop starts; the engine never touches
// storage mid-run.
type Inputs struct {
	Period        roster.SchedulePeriod
	Staff         []staff.StaffMember
	Leaves        []leave.LeaveRecord
	Holidays      []calendar.Holiday
	Rosters       []calendar.ProviderRoster
	Combinations  []calendar.RequirementCombination
	Ratios        []calendar.RatioConfig
	Dimensions    []calendar.DimensionConfig
	CarriedIssues []roster.UnresolvedIssue
	// PriorActuals feeds the snapshot baseline mode: staff id -> dimension
	// -> realized count from the previous period.
	PriorActuals map[string]map[roster.Dimension]float64
}

// Options tune a run. Zero values fall back to defaults.
type Options struct {
	BusinessDaysPerWeek int
	BaselineMode        BaselineMode
	// Seed fixes the tie-break randomness source. Zero derives the seed
	// from the period id so reruns of an unchanged snapshot are
	// reproducible.
	Seed int64
}

func (o Options) withDefaults() Options {
	if o.BusinessDaysPerWeek == 0 {
		o.BusinessDaysPerWeek = 6
	}
	if o.BaselineMode == "" {
		o.BaselineMode = BaselineRealized
	}
	return o
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Result      roster.RunResult
	Assignments []roster.Assignment
	Issues      []roster.UnresolvedIssue
	Scores      []roster.FairnessSnapshot
}

// Orchestrator drives the multi-phase assignment state machine:
// PREPARED -> PRIORITY_ASSIGNED -> QUOTA_RECONCILED -> HOLIDAY_OVERRIDDEN ->
// VALIDATED -> COMPLETED | CRITICAL_UNRESOLVED.
type Orchestrator struct {
	opts Options
}

func NewOrchestrator(opts Options) *Orchestrator {
	return &Orchestrator{opts: opts.withDefaults()}
}

// Run executes one full generation over the input snapshot. Per-day and
// per-staff problems degrade to recorded issues; Run itself only fails on
// malformed input that would have been caught before any writes.
func (o *Orchestrator) Run(in Inputs) (*Outcome, error) {
	if in.Period.EndDate.Before(in.Period.StartDate) {
		return nil, roster.ErrPeriodDateInvalid
	}

	seed := o.opts.Seed
	if seed == 0 {
		seed = seedFromPeriod(in.Period.ID)
	}
	rng := rand.New(rand.NewSource(seed))

	classifier := NewDayClassifier(in.Holidays)
	calc := NewRequirementCalculator(classifier, in.Combinations, in.Ratios)
	days := calc.Build(in.Rosters, in.Leaves)
	engine := NewFairnessEngine(in.Staff, in.Dimensions, o.opts.BaselineMode, in.PriorActuals)

	rc := newRunContext(in.Period, in.Staff, days, rng)
	o.prepare(rc, engine, in.Leaves)

	carried := carriedCategories(in.CarriedIssues)
	o.phasePriority(rc, engine, classifier, carried)
	o.phaseQuota(rc, engine, classifier)
	o.phaseHoliday(rc, engine, classifier)
	o.phaseValidate(rc, engine, classifier)

	return o.finalize(rc, engine), nil
}

func seedFromPeriod(periodID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(periodID))
	return int64(h.Sum64())
}

// prepare materializes confirmed leave as assignment cells before any
// selection happens: annual leave becomes an ANNUAL row (quota-offsetting,
// total-dimension accruing), off leave becomes an OFF row.
func (o *Orchestrator) prepare(rc *RunContext, engine *FairnessEngine, leaves []leave.LeaveRecord) {
	for _, l := range leaves {
		if !l.Blocks() {
			continue
		}
		m, ok := rc.staffByID[l.StaffID]
		if !ok || !m.Active {
			continue
		}
		d := midnight(l.Date)
		if d.Before(rc.start) || d.After(rc.end) || !isBusinessDay(d) {
			continue
		}
		if rc.assignment(d, m.ID) != nil {
			continue
		}
		switch l.Type {
		case leave.LeaveAnnual:
			rc.assign(m, d, roster.ShiftAnnual, m.Category, false)
			engine.RecordLeave(m.ID)
		case leave.LeaveOff:
			rc.assign(m, d, roster.ShiftOff, m.Category, false)
		}
	}
	rc.state = roster.StatePrepared
}

// carriedCategories extracts the dept/category pairs that came out of the
// previous period with an unresolved shortage; those buckets are filled
// first within each day.
func carriedCategories(issues []roster.UnresolvedIssue) map[string]struct{} {
	out := make(map[string]struct{})
	for _, i := range issues {
		if i.Type == roster.IssueShortage && i.CarryStatus == roster.CarryNextPeriod {
			out[i.Department+"/"+i.Category] = struct{}{}
		}
	}
	return out
}

// Phase 1 - priority assignment. Dates are processed in classifier-priority
// order so scarce fairness-relevant days are filled while the candidate
// pools are still deep.
func (o *Orchestrator) phasePriority(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, carried map[string]struct{}) {
	for _, req := range rc.orderedDays() {
		if !isBusinessDay(req.Date) {
			continue
		}
		for _, cat := range orderedCategories(req.Categories, carried) {
			o.fillCategory(rc, engine, classifier, req, cat)
		}
	}
	rc.state = roster.StatePriorityAssigned
}

// orderedCategories puts carried-shortage buckets first, then keeps the
// configured order.
func orderedCategories(cats []roster.CategoryRequirement, carried map[string]struct{}) []roster.CategoryRequirement {
	out := make([]roster.CategoryRequirement, len(cats))
	copy(out, cats)
	sort.SliceStable(out, func(i, j int) bool {
		_, ci := carried[out[i].Department+"/"+out[i].Category]
		_, cj := carried[out[j].Department+"/"+out[j].Category]
		return ci && !cj
	})
	return out
}

func (o *Orchestrator) fillCategory(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, req *roster.DayRequirement, cat roster.CategoryRequirement) {
	need := cat.Count - rc.workAssignedForCategory(req.Date, cat.Department, cat.Category)
	if need <= 0 {
		return
	}

	shift := roster.ShiftWorkDay
	if req.HasNightSession {
		shift = roster.ShiftWorkNight
	}
	dims := classifier.Dimensions(req.Date, req.HasNightSession)

	pool := o.nativePool(rc, req, cat)
	ranked := o.rankByTag(rc, engine, pool, req.Tag)
	for _, m := range ranked {
		if need == 0 {
			break
		}
		rc.assign(m, req.Date, shift, cat.Category, false)
		engine.Record(m.ID, dims, 1)
		need--
	}

	if need > 0 && cat.Strategy == roster.FillNativeThenFlexible {
		for _, m := range o.flexiblePool(rc, req, cat) {
			if need == 0 {
				break
			}
			rc.assign(m, req.Date, shift, cat.Category, true)
			engine.Record(m.ID, dims, 1)
			need--
		}
	}

	if need > 0 {
		sev := roster.SeverityWarning
		if req.Tag.PriorityDay() {
			sev = roster.SeverityCritical
		}
		date := req.Date
		rc.issuef(roster.IssueShortage, sev, &date, cat.Department, cat.Category, nil,
			"short %d of %d required staff", need, cat.Count)
	}
}

// nativePool collects active members of the requirement's own category who
// are not excluded by confirmed leave, not already placed today and not at
// their weekly quota.
func (o *Orchestrator) nativePool(rc *RunContext, req *roster.DayRequirement, cat roster.CategoryRequirement) []staff.StaffMember {
	var pool []staff.StaffMember
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if !m.Active || m.Department != cat.Department || m.Category != cat.Category {
			continue
		}
		if !o.available(rc, req, m) {
			continue
		}
		pool = append(pool, m)
	}
	return pool
}

// flexiblePool collects members pre-authorized to cover the category,
// ordered by flexibility priority descending with seeded tie-breaks.
func (o *Orchestrator) flexiblePool(rc *RunContext, req *roster.DayRequirement, cat roster.CategoryRequirement) []staff.StaffMember {
	var pool []staff.StaffMember
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if !m.Active || !m.IsFlexibleFor(cat.Category) {
			continue
		}
		if !o.available(rc, req, m) {
			continue
		}
		pool = append(pool, m)
	}
	shuffle(rc.rng, pool)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].FlexPriority > pool[j].FlexPriority
	})
	return pool
}

func (o *Orchestrator) available(rc *RunContext, req *roster.DayRequirement, m staff.StaffMember) bool {
	if _, excluded := req.ExcludedStaffIDs[m.ID]; excluded {
		return false
	}
	if rc.assignment(req.Date, m.ID) != nil {
		return false
	}
	return !rc.atQuota(m, req.Date)
}

// rankByTag orders a candidate pool most-under-worked first using the day
// type's ranking key: night days rank on the night dimension alone, weekend
// and holiday-adjacent days rank on total then their own dimension, and
// everything else ranks on total. Deviations are cohort-batch adjusted
// before ranking; equal candidates tie-break on the run's seeded rng.
func (o *Orchestrator) rankByTag(rc *RunContext, engine *FairnessEngine, pool []staff.StaffMember, tag roster.DayType) []staff.StaffMember {
	if len(pool) == 0 {
		return pool
	}
	ids := make([]string, len(pool))
	for i, m := range pool {
		ids[i] = m.ID
	}

	var keys []map[string]float64
	switch tag {
	case roster.DayNight:
		keys = []map[string]float64{engine.AdjustedDeviations(ids, roster.DimNight)}
	case roster.DayWeekend:
		keys = []map[string]float64{
			engine.AdjustedDeviations(ids, roster.DimTotal),
			engine.AdjustedDeviations(ids, roster.DimWeekend),
		}
	case roster.DayHolidayAdjacent:
		keys = []map[string]float64{
			engine.AdjustedDeviations(ids, roster.DimTotal),
			engine.AdjustedDeviations(ids, roster.DimHolidayAdjacent),
		}
	default:
		keys = []map[string]float64{engine.AdjustedDeviations(ids, roster.DimTotal)}
	}

	ranked := make([]staff.StaffMember, len(pool))
	copy(ranked, pool)
	shuffle(rc.rng, ranked)
	sort.SliceStable(ranked, func(i, j int) bool {
		for _, key := range keys {
			di, dj := key[ranked[i].ID], key[ranked[j].ID]
			if di != dj {
				return di > dj
			}
		}
		return false
	})
	return ranked
}

// Phase 2 - quota reconciliation. Tops up everyone still under their weekly
// quota, fills the remaining cells with OFF, then balances each week's OFF
// distribution against its target.
func (o *Orchestrator) phaseQuota(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier) {
	for _, wk := range rc.weeks() {
		weekDays := o.weekBusinessDays(rc, wk)
		o.fillUnderQuota(rc, engine, classifier, weekDays)
		o.fillOffCells(rc, weekDays)
		o.balanceOffTarget(rc, engine, classifier, weekDays)
	}
	rc.state = roster.StateQuotaReconciled
}

func (o *Orchestrator) weekBusinessDays(rc *RunContext, wk time.Time) []time.Time {
	var out []time.Time
	for i := 0; i < 7; i++ {
		d := wk.AddDate(0, 0, i)
		if d.After(rc.end) || !isBusinessDay(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (o *Orchestrator) fillUnderQuota(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, weekDays []time.Time) {
	if len(weekDays) == 0 {
		return
	}
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if !m.Active {
			continue
		}
		for rc.workedInWeek(weekDays[0], m.ID) < m.WeeklyQuota() {
			day, req := o.findOpenSlot(rc, classifier, m, weekDays)
			if req == nil {
				sev := roster.SeverityWarning
				if o.hasConfirmedOffLeave(rc, m, weekDays) {
					sev = roster.SeverityInfo
				}
				wk := weekDays[0]
				rc.issuef(roster.IssueStaffShortage, sev, &wk, m.Department, m.Category, &m.ID,
					"no open slot to reach weekly quota of %d", m.WeeklyQuota())
				break
			}
			shift := roster.ShiftWorkDay
			if req.HasNightSession {
				shift = roster.ShiftWorkNight
			}
			rc.assign(m, day, shift, m.Category, false)
			engine.Record(m.ID, classifier.Dimensions(day, req.HasNightSession), 1)
		}
	}
}

// findOpenSlot scans the week's remaining open days for a native category
// slot the member can take. Holiday dates are skipped: phase 3 would void
// the assignment anyway.
func (o *Orchestrator) findOpenSlot(rc *RunContext, classifier *DayClassifier, m staff.StaffMember, weekDays []time.Time) (time.Time, *roster.DayRequirement) {
	for _, d := range weekDays {
		req, ok := rc.days[dateKey(d)]
		if !ok || classifier.IsHoliday(d) {
			continue
		}
		if _, excluded := req.ExcludedStaffIDs[m.ID]; excluded {
			continue
		}
		if rc.assignment(d, m.ID) != nil {
			continue
		}
		for _, cat := range req.Categories {
			if cat.Department != m.Department || cat.Category != m.Category {
				continue
			}
			if rc.workAssignedForCategory(d, cat.Department, cat.Category) < cat.Count {
				return d, req
			}
		}
	}
	return time.Time{}, nil
}

// hasConfirmedOffLeave reports whether approved leave blocks the member on
// any of the week's days; a quota shortfall it causes is informational.
func (o *Orchestrator) hasConfirmedOffLeave(rc *RunContext, m staff.StaffMember, weekDays []time.Time) bool {
	for _, d := range weekDays {
		if req, ok := rc.days[dateKey(d)]; ok {
			if _, excluded := req.ExcludedStaffIDs[m.ID]; excluded {
				return true
			}
		}
	}
	return false
}

// fillOffCells makes the week's assignment table total: every active staff
// member gets a row for every business day.
func (o *Orchestrator) fillOffCells(rc *RunContext, weekDays []time.Time) {
	for _, d := range weekDays {
		for _, id := range rc.sortedStaffIDs() {
			m := rc.staffByID[id]
			if !m.Active {
				continue
			}
			if rc.assignment(d, m.ID) == nil {
				rc.assign(m, d, roster.ShiftOff, m.Category, false)
			}
		}
	}
}

// balanceOffTarget converges the week's OFF count toward
// (businessDaysPerWeek - quota) summed over active staff. Too few OFF days
// means someone is over quota: their worked day on the OFF-poorest date is
// released, most over-worked first. Too many OFF days converts back to
// WORK, most under-worked staff on the OFF-richest date first.
func (o *Orchestrator) balanceOffTarget(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, weekDays []time.Time) {
	target := 0
	for _, id := range rc.sortedStaffIDs() {
		m := rc.staffByID[id]
		if !m.Active {
			continue
		}
		if n := o.opts.BusinessDaysPerWeek - m.WeeklyQuota(); n > 0 {
			target += n
		}
	}
	total := 0
	for _, d := range weekDays {
		total += rc.offCount(d)
	}

	for total < target {
		if !o.convertWorkToOff(rc, engine, classifier, weekDays) {
			break
		}
		total++
	}
	for total > target {
		if !o.convertOffToWork(rc, engine, classifier, weekDays) {
			break
		}
		total--
	}
}

func (o *Orchestrator) convertWorkToOff(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, weekDays []time.Time) bool {
	var best *roster.Assignment
	bestOff := 0
	bestDev := 0.0
	for _, d := range weekDays {
		offs := rc.offCount(d)
		for _, id := range rc.sortedStaffIDs() {
			m := rc.staffByID[id]
			a := rc.assignment(d, m.ID)
			if a == nil || !a.ShiftType.IsWork() {
				continue
			}
			if rc.workedInWeek(d, m.ID) <= m.WeeklyQuota() {
				continue
			}
			dev := engine.Deviation(m.ID, roster.DimTotal)
			if best == nil || offs < bestOff || (offs == bestOff && dev < bestDev) {
				best, bestOff, bestDev = a, offs, dev
			}
		}
	}
	if best == nil {
		return false
	}
	req := rc.days[dateKey(best.Date)]
	rc.convert(best, roster.ShiftOff)
	engine.Record(best.StaffID, classifier.Dimensions(best.Date, req != nil && req.HasNightSession), -1)
	return true
}

func (o *Orchestrator) convertOffToWork(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier, weekDays []time.Time) bool {
	var best *roster.Assignment
	var bestReq *roster.DayRequirement
	bestOff := -1
	bestDev := 0.0
	for _, d := range weekDays {
		req, ok := rc.days[dateKey(d)]
		if !ok || classifier.IsHoliday(d) {
			continue
		}
		offs := rc.offCount(d)
		for _, id := range rc.sortedStaffIDs() {
			m := rc.staffByID[id]
			a := rc.assignment(d, m.ID)
			if a == nil || a.ShiftType != roster.ShiftOff {
				continue
			}
			if _, excluded := req.ExcludedStaffIDs[m.ID]; excluded {
				continue
			}
			if rc.atQuota(m, d) {
				continue
			}
			if !o.categoryHasRoom(rc, req, m) {
				continue
			}
			dev := engine.Deviation(m.ID, roster.DimTotal)
			if best == nil || offs > bestOff || (offs == bestOff && dev > bestDev) {
				best, bestReq, bestOff, bestDev = a, req, offs, dev
			}
		}
	}
	if best == nil {
		return false
	}
	shift := roster.ShiftWorkDay
	if bestReq.HasNightSession {
		shift = roster.ShiftWorkNight
	}
	rc.convert(best, shift)
	engine.Record(best.StaffID, classifier.Dimensions(best.Date, bestReq.HasNightSession), 1)
	return true
}

func (o *Orchestrator) categoryHasRoom(rc *RunContext, req *roster.DayRequirement, m staff.StaffMember) bool {
	for _, cat := range req.Categories {
		if cat.Department == m.Department && cat.Category == m.Category {
			return rc.workAssignedForCategory(req.Date, cat.Department, cat.Category) < cat.Count
		}
	}
	return false
}

// Phase 3 - holiday override. Worked shifts on holiday dates are
// unconditionally released regardless of the quota consequences; any
// shortfall this creates is tolerated and the week is excluded from the
// quota checks of phase 4.
func (o *Orchestrator) phaseHoliday(rc *RunContext, engine *FairnessEngine, classifier *DayClassifier) {
	eachDay(rc.start, rc.end, func(d time.Time) {
		if !classifier.IsHoliday(d) {
			return
		}
		rc.holidayWeeks[dateKey(weekStart(d))] = struct{}{}
		cells := rc.cells[dateKey(d)]
		req := rc.days[dateKey(d)]
		hasNight := req != nil && req.HasNightSession
		for _, id := range rc.sortedStaffIDs() {
			a := cells[id]
			if a == nil || !a.ShiftType.IsWork() {
				continue
			}
			rc.convert(a, roster.ShiftOff)
			engine.Record(id, classifier.Dimensions(d, hasNight), -1)
		}
	})
	rc.state = roster.StateHolidayOverridden
}

func (o *Orchestrator) finalize(rc *RunContext, engine *FairnessEngine) *Outcome {
	critical, warning, info := 0, 0, 0
	for i := range rc.issues {
		switch rc.issues[i].Severity {
		case roster.SeverityCritical:
			critical++
		case roster.SeverityWarning:
			warning++
		default:
			info++
		}
	}

	if critical == 0 {
		rc.state = roster.StateCompleted
	} else {
		rc.state = roster.StateCriticalUnresolved
	}

	assignments := rc.assignments()
	ids := engine.StaffIDs()
	sort.Strings(ids)
	scores := make([]roster.FairnessSnapshot, 0, len(ids))
	for _, id := range ids {
		scores = append(scores, roster.FairnessSnapshot{
			PeriodID:   rc.period.ID,
			StaffID:    id,
			Overall:    engine.Overall(id),
			Dimensions: engine.Scores(id),
		})
	}

	return &Outcome{
		Result: roster.RunResult{
			PeriodID:        rc.period.ID,
			State:           rc.state,
			AssignmentCount: len(assignments),
			CriticalCount:   critical,
			WarningCount:    warning,
			InfoCount:       info,
			Issues:          rc.issues,
		},
		Assignments: assignments,
		Issues:      rc.issues,
		Scores:      scores,
	}
}
