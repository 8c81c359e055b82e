package roster

import "time"

// SchedulePeriod is one recurring scheduling window (week or month) for a
// clinic. Its status doubles as the single-writer lock for generation runs:
// a period in StatusGenerating rejects concurrent runs.
type SchedulePeriod struct {
	ID           string
	ClinicID     string
	StartDate    time.Time
	EndDate      time.Time
	Status       PeriodStatus
	AutoGenerate bool
	LastRunID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PeriodStatus string

const (
	PeriodStatusDraft          PeriodStatus = "draft"
	PeriodStatusGenerating     PeriodStatus = "generating"
	PeriodStatusCompleted      PeriodStatus = "completed"
	PeriodStatusNeedsAttention PeriodStatus = "needs_attention"
)

type ShiftType string

const (
	ShiftWorkDay   ShiftType = "work_day"
	ShiftWorkNight ShiftType = "work_night"
	ShiftOff       ShiftType = "off"
	ShiftAnnual    ShiftType = "annual"
)

// IsWork reports whether the shift is a worked shift (day or night).
func (s ShiftType) IsWork() bool {
	return s == ShiftWorkDay || s == ShiftWorkNight
}

// Assignment is one staff/date cell of the generated roster. The period's
// assignment set is fully regenerated on every run, never patched in place.
type Assignment struct {
	ID         string
	PeriodID   string
	StaffID    string
	Date       time.Time
	ShiftType  ShiftType
	Department string
	Category   string
	IsFlexible bool
	CreatedAt  time.Time
}

// DayType is the single fairness-relevant tag of a date. Higher values take
// precedence when a date qualifies for several.
type DayType int

const (
	DayNormal          DayType = 0
	DayNight           DayType = 1
	DayWeekend         DayType = 2
	DayHolidayAdjacent DayType = 3
	DayHoliday         DayType = 4
)

func (d DayType) String() string {
	switch d {
	case DayHoliday:
		return "holiday"
	case DayHolidayAdjacent:
		return "holiday_adjacent"
	case DayWeekend:
		return "weekend"
	case DayNight:
		return "night"
	default:
		return "normal"
	}
}

// PriorityDay reports whether the tag makes the date a fairness-priority day.
// Shortages on priority days are critical.
func (d DayType) PriorityDay() bool {
	return d != DayNormal
}

// Dimension is one axis of workload balance.
type Dimension string

const (
	DimTotal           Dimension = "total"
	DimNight           Dimension = "night"
	DimWeekend         Dimension = "weekend"
	DimHoliday         Dimension = "holiday"
	DimHolidayAdjacent Dimension = "holiday_adjacent"
)

// AllDimensions lists every dimension in ranking-weight order.
var AllDimensions = []Dimension{DimTotal, DimNight, DimWeekend, DimHoliday, DimHolidayAdjacent}

// DimensionWeights are the fixed overall-score weights.
var DimensionWeights = map[Dimension]float64{
	DimTotal:           2,
	DimNight:           3,
	DimWeekend:         2,
	DimHoliday:         4,
	DimHolidayAdjacent: 1,
}

// FillStrategy says how a category requirement may be satisfied.
type FillStrategy string

const (
	// FillNativeOnly fills exclusively from the category's own staff.
	FillNativeOnly FillStrategy = "native_only"
	// FillNativeThenFlexible tops up a native shortfall from the flexible pool.
	FillNativeThenFlexible FillStrategy = "native_then_flexible"
)

// CategoryRequirement is the per-category slice of a day's requirement.
type CategoryRequirement struct {
	Department  string
	Category    string
	Count       int
	MinRequired int
	Strategy    FillStrategy
}

// DayRequirement is the fully derived staffing target for one date. Built
// fresh at the start of every run.
type DayRequirement struct {
	Date               time.Time
	Tag                DayType
	HasNightSession    bool
	TotalRequired      int
	DepartmentRequired map[string]int
	Categories         []CategoryRequirement
	ExcludedStaffIDs   map[string]struct{}
}

type IssueType string

const (
	IssueShortage      IssueType = "shortage"
	IssueExcess        IssueType = "excess"
	IssueStaffShortage IssueType = "staff_shortage"
	IssueUnfair        IssueType = "unfair"
)

type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityWarning  IssueSeverity = "warning"
	SeverityInfo     IssueSeverity = "info"
)

type CarryStatus string

const (
	CarryNone       CarryStatus = "none"
	CarryNextPeriod CarryStatus = "pending_next_period"
)

// UnresolvedIssue is a recorded deviation from the staffing invariants.
// Deviations are always recorded, never silently dropped.
type UnresolvedIssue struct {
	ID          string
	PeriodID    string
	Type        IssueType
	Severity    IssueSeverity
	StaffID     *string
	Department  string
	Category    string
	Date        *time.Time
	Message     string
	Justified   bool
	CarryStatus CarryStatus
	CreatedAt   time.Time
}

// FairnessDimensionScore is one staff x dimension fairness measurement.
// Deviation is baseline minus actual: positive means under-worked relative
// to department peers.
type FairnessDimensionScore struct {
	Dimension Dimension `json:"dimension"`
	Baseline  float64   `json:"baseline"`
	Actual    float64   `json:"actual"`
	Deviation float64   `json:"deviation"`
	Score     float64   `json:"score"`
}

// FairnessSnapshot is the persisted per-staff fairness state after a run,
// consumed by the leave-application gate and dashboards.
type FairnessSnapshot struct {
	ID         string
	PeriodID   string
	StaffID    string
	Overall    float64
	Dimensions []FairnessDimensionScore
	CreatedAt  time.Time
}

// RunState is the orchestrator's state machine position.
type RunState string

const (
	StatePrepared           RunState = "prepared"
	StatePriorityAssigned   RunState = "priority_assigned"
	StateQuotaReconciled    RunState = "quota_reconciled"
	StateHolidayOverridden  RunState = "holiday_overridden"
	StateValidated          RunState = "validated"
	StateCompleted          RunState = "completed"
	StateCriticalUnresolved RunState = "critical_unresolved"
)

// RunSnapshot captures an aggregate view of a period's assignments before and
// after a run for operator diff and rollback review.
type RunSnapshot struct {
	ID       string
	PeriodID string
	RunID    string
	Phase    SnapshotPhase
	Summary  []byte // JSON aggregate: counts per shift type, staff, issues
	TakenAt  time.Time
}

type SnapshotPhase string

const (
	SnapshotPre  SnapshotPhase = "pre"
	SnapshotPost SnapshotPhase = "post"
)
