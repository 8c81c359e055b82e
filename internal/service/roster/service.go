package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
	"github.com/medirota/roster-backend-go/internal/repository/postgresql"
)

// RosterService owns the generation lifecycle for schedule periods: taking
// the single-writer lock, batching every read into the in-memory snapshot,
// running the engine and committing the whole outcome in one transaction.
type RosterService struct {
	db   *database.DB
	opts Options

	periods     roster.PeriodRepository
	assignments roster.AssignmentRepository
	issues      roster.IssueRepository
	fairness    roster.FairnessRepository
	snapshots   roster.SnapshotRepository

	staff        staff.StaffRepository
	leaves       leave.LeaveRepository
	holidays     calendar.HolidayRepository
	rosters      calendar.ProviderRosterRepository
	combinations calendar.CombinationRepository
	ratios       calendar.RatioRepository
	dimensions   calendar.DimensionRepository
}

func NewRosterService(
	db *database.DB,
	opts Options,
	periods roster.PeriodRepository,
	assignments roster.AssignmentRepository,
	issues roster.IssueRepository,
	fairness roster.FairnessRepository,
	snapshots roster.SnapshotRepository,
	staffRepo staff.StaffRepository,
	leaves leave.LeaveRepository,
	holidays calendar.HolidayRepository,
	rosters calendar.ProviderRosterRepository,
	combinations calendar.CombinationRepository,
	ratios calendar.RatioRepository,
	dimensions calendar.DimensionRepository,
) *RosterService {
	return &RosterService{
		db:           db,
		opts:         opts.withDefaults(),
		periods:      periods,
		assignments:  assignments,
		issues:       issues,
		fairness:     fairness,
		snapshots:    snapshots,
		staff:        staffRepo,
		leaves:       leaves,
		holidays:     holidays,
		rosters:      rosters,
		combinations: combinations,
		ratios:       ratios,
		dimensions:   dimensions,
	}
}

func (s *RosterService) CreatePeriod(ctx context.Context, req roster.CreatePeriodRequest) (roster.PeriodResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return roster.PeriodResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return roster.PeriodResponse{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return roster.PeriodResponse{}, roster.ErrPeriodDateInvalid
	}
	period, err := s.periods.Create(ctx, roster.SchedulePeriod{
		ClinicID:     req.ClinicID,
		StartDate:    start,
		EndDate:      end,
		Status:       roster.PeriodStatusDraft,
		AutoGenerate: req.AutoGenerate,
	})
	if err != nil {
		return roster.PeriodResponse{}, err
	}
	return roster.ToPeriodResponse(period), nil
}

// getOwnedPeriod loads a period and verifies clinic ownership. A period
// belonging to another clinic reads as not found.
func (s *RosterService) getOwnedPeriod(ctx context.Context, clinicID, id string) (roster.SchedulePeriod, error) {
	period, err := s.periods.GetByID(ctx, id)
	if err != nil {
		return roster.SchedulePeriod{}, err
	}
	if period.ClinicID != clinicID {
		return roster.SchedulePeriod{}, roster.ErrPeriodNotFound
	}
	return period, nil
}

func (s *RosterService) GetPeriod(ctx context.Context, clinicID, id string) (roster.PeriodResponse, error) {
	period, err := s.getOwnedPeriod(ctx, clinicID, id)
	if err != nil {
		return roster.PeriodResponse{}, err
	}
	return roster.ToPeriodResponse(period), nil
}

func (s *RosterService) ListPeriods(ctx context.Context, clinicID string, limit int) ([]roster.PeriodResponse, error) {
	if limit == 0 {
		limit = 20
	}
	periods, err := s.periods.ListByClinic(ctx, clinicID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]roster.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, roster.ToPeriodResponse(p))
	}
	return out, nil
}

// Generate runs the full assignment pipeline for one period. The period
// status is the run lock: a period already generating rejects the call, and
// any failure after the lock is taken rolls the status back to its pre-run
// value so a retry is safe.
func (s *RosterService) Generate(ctx context.Context, clinicID, periodID string) (roster.RunResult, error) {
	period, err := s.getOwnedPeriod(ctx, clinicID, periodID)
	if err != nil {
		return roster.RunResult{}, err
	}
	if period.Status == roster.PeriodStatusGenerating {
		return roster.RunResult{}, roster.ErrRunInProgress
	}

	runID := uuid.NewString()
	priorStatus := period.Status
	locked, err := s.periods.TransitionStatus(ctx, period.ID, priorStatus, roster.PeriodStatusGenerating, &runID)
	if err != nil {
		return roster.RunResult{}, err
	}
	if !locked {
		return roster.RunResult{}, roster.ErrRunInProgress
	}

	result, err := s.generateLocked(ctx, period, runID)
	if err != nil {
		// Roll the lock back so the period stays re-runnable. Nothing was
		// written: every mutation happens in the single terminal
		// transaction.
		if rbErr := s.periods.SetStatus(ctx, period.ID, priorStatus); rbErr != nil {
			slog.Error("failed to roll back period status after aborted run",
				"period_id", period.ID, "error", rbErr)
		}
		return roster.RunResult{}, err
	}
	return result, nil
}

func (s *RosterService) generateLocked(ctx context.Context, period roster.SchedulePeriod, runID string) (roster.RunResult, error) {
	in, err := s.loadInputs(ctx, period)
	if err != nil {
		return roster.RunResult{}, err
	}
	// Ratio and combination config are both absent: nothing could ever be
	// required. That is a configuration failure, not a shortage.
	if len(in.Combinations) == 0 && len(in.Ratios) == 0 {
		return roster.RunResult{}, roster.ErrMissingRatioConfig
	}

	preSnapshot, err := s.captureSnapshot(ctx, period, runID, roster.SnapshotPre)
	if err != nil {
		return roster.RunResult{}, err
	}

	outcome, err := NewOrchestrator(s.opts).Run(*in)
	if err != nil {
		return roster.RunResult{}, err
	}
	outcome.Result.RunID = runID

	terminal := roster.PeriodStatusCompleted
	if outcome.Result.CriticalCount > 0 {
		terminal = roster.PeriodStatusNeedsAttention
	}

	for i := range outcome.Assignments {
		outcome.Assignments[i].ID = uuid.NewString()
	}
	for i := range outcome.Issues {
		outcome.Issues[i].ID = uuid.NewString()
	}
	for i := range outcome.Scores {
		outcome.Scores[i].ID = uuid.NewString()
	}

	postSummary, err := summarizeOutcome(outcome)
	if err != nil {
		return roster.RunResult{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.assignments.ReplaceForPeriod(txCtx, period.ID, outcome.Assignments); err != nil {
			return fmt.Errorf("replace assignments: %w", err)
		}
		if err := s.issues.DeleteByPeriod(txCtx, period.ID); err != nil {
			return fmt.Errorf("clear issues: %w", err)
		}
		if err := s.issues.InsertMany(txCtx, outcome.Issues); err != nil {
			return fmt.Errorf("insert issues: %w", err)
		}
		if err := s.fairness.ReplaceForPeriod(txCtx, period.ID, outcome.Scores); err != nil {
			return fmt.Errorf("replace fairness snapshots: %w", err)
		}
		if err := s.snapshots.Insert(txCtx, preSnapshot); err != nil {
			return fmt.Errorf("insert pre-run snapshot: %w", err)
		}
		if err := s.snapshots.Insert(txCtx, roster.RunSnapshot{
			ID:       uuid.NewString(),
			PeriodID: period.ID,
			RunID:    runID,
			Phase:    roster.SnapshotPost,
			Summary:  postSummary,
		}); err != nil {
			return fmt.Errorf("insert post-run snapshot: %w", err)
		}
		if _, err := s.periods.TransitionStatus(txCtx, period.ID, roster.PeriodStatusGenerating, terminal, &runID); err != nil {
			return fmt.Errorf("finalize period status: %w", err)
		}
		return nil
	})
	if err != nil {
		return roster.RunResult{}, err
	}

	slog.Info("roster generation finished",
		"period_id", period.ID,
		"run_id", runID,
		"state", outcome.Result.State,
		"assignments", outcome.Result.AssignmentCount,
		"critical", outcome.Result.CriticalCount,
		"warning", outcome.Result.WarningCount,
		"info", outcome.Result.InfoCount,
	)
	return outcome.Result, nil
}

// loadInputs batches every read the run needs into one in-memory snapshot.
// The engine never touches storage after this point.
func (s *RosterService) loadInputs(ctx context.Context, period roster.SchedulePeriod) (*Inputs, error) {
	start, end := expandToWeeks(period.StartDate, period.EndDate)
	// One extra day each side so holiday adjacency at the edges resolves.
	holidayStart, holidayEnd := start.AddDate(0, 0, -1), end.AddDate(0, 0, 1)

	members, err := s.staff.GetActiveByClinicID(ctx, period.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	leaves, err := s.leaves.GetByClinicAndRange(ctx, period.ClinicID, start, end, []leave.LeaveStatus{leave.LeaveStatusConfirmed})
	if err != nil {
		return nil, fmt.Errorf("load leave records: %w", err)
	}
	holidays, err := s.holidays.GetByClinicAndRange(ctx, period.ClinicID, holidayStart, holidayEnd)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	rosters, err := s.rosters.GetByClinicAndRange(ctx, period.ClinicID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load provider rosters: %w", err)
	}
	combos, err := s.combinations.GetByClinicID(ctx, period.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("load requirement combinations: %w", err)
	}
	ratios, err := s.ratios.GetByClinicID(ctx, period.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("load category ratios: %w", err)
	}
	dims, err := s.dimensions.GetByClinicID(ctx, period.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("load dimension config: %w", err)
	}
	carried, err := s.issues.GetCarriedForClinic(ctx, period.ClinicID, period.StartDate)
	if err != nil {
		return nil, fmt.Errorf("load carried issues: %w", err)
	}

	in := &Inputs{
		Period:        period,
		Staff:         members,
		Leaves:        leaves,
		Holidays:      holidays,
		Rosters:       rosters,
		Combinations:  combos,
		Ratios:        ratios,
		Dimensions:    dims,
		CarriedIssues: carried,
	}

	if s.opts.BaselineMode == BaselineSnapshot {
		in.PriorActuals = make(map[string]map[roster.Dimension]float64, len(members))
		for _, m := range members {
			snap, err := s.fairness.GetLatestByStaff(ctx, m.ID)
			if err != nil {
				continue // no history yet, baseline stays zero
			}
			dims := make(map[roster.Dimension]float64, len(snap.Dimensions))
			for _, d := range snap.Dimensions {
				dims[d.Dimension] = d.Actual
			}
			in.PriorActuals[m.ID] = dims
		}
	}
	return in, nil
}

type snapshotSummary struct {
	AssignmentCount int            `json:"assignment_count"`
	ByShiftType     map[string]int `json:"by_shift_type"`
	CriticalIssues  int            `json:"critical_issues,omitempty"`
	WarningIssues   int            `json:"warning_issues,omitempty"`
	InfoIssues      int            `json:"info_issues,omitempty"`
	State           string         `json:"state,omitempty"`
}

// captureSnapshot records the period's current assignment aggregate before
// the run replaces it, for operator diff and rollback review.
func (s *RosterService) captureSnapshot(ctx context.Context, period roster.SchedulePeriod, runID string, phase roster.SnapshotPhase) (roster.RunSnapshot, error) {
	existing, err := s.assignments.GetByPeriod(ctx, period.ID)
	if err != nil {
		return roster.RunSnapshot{}, fmt.Errorf("capture %s-run snapshot: %w", phase, err)
	}
	summary := snapshotSummary{
		AssignmentCount: len(existing),
		ByShiftType:     make(map[string]int),
	}
	for _, a := range existing {
		summary.ByShiftType[string(a.ShiftType)]++
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return roster.RunSnapshot{}, err
	}
	return roster.RunSnapshot{
		ID:       uuid.NewString(),
		PeriodID: period.ID,
		RunID:    runID,
		Phase:    phase,
		Summary:  raw,
	}, nil
}

func summarizeOutcome(outcome *Outcome) ([]byte, error) {
	summary := snapshotSummary{
		AssignmentCount: len(outcome.Assignments),
		ByShiftType:     make(map[string]int),
		CriticalIssues:  outcome.Result.CriticalCount,
		WarningIssues:   outcome.Result.WarningCount,
		InfoIssues:      outcome.Result.InfoCount,
		State:           string(outcome.Result.State),
	}
	for _, a := range outcome.Assignments {
		summary.ByShiftType[string(a.ShiftType)]++
	}
	return json.Marshal(summary)
}

// GetAssignments returns the period's generated roster.
func (s *RosterService) GetAssignments(ctx context.Context, clinicID, periodID string) ([]roster.AssignmentResponse, error) {
	if _, err := s.getOwnedPeriod(ctx, clinicID, periodID); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.GetByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]roster.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, roster.ToAssignmentResponse(a))
	}
	return out, nil
}

func (s *RosterService) GetIssues(ctx context.Context, clinicID, periodID string) ([]roster.IssueResponse, error) {
	if _, err := s.getOwnedPeriod(ctx, clinicID, periodID); err != nil {
		return nil, err
	}
	issues, err := s.issues.GetByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]roster.IssueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, roster.ToIssueResponse(i))
	}
	return out, nil
}

func (s *RosterService) GetScores(ctx context.Context, clinicID, periodID string) ([]roster.FairnessScoreResponse, error) {
	if _, err := s.getOwnedPeriod(ctx, clinicID, periodID); err != nil {
		return nil, err
	}
	snaps, err := s.fairness.GetByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]roster.FairnessScoreResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, roster.FairnessScoreResponse{
			StaffID:    snap.StaffID,
			Overall:    snap.Overall,
			Dimensions: snap.Dimensions,
		})
	}
	return out, nil
}

// GenerateDuePeriods runs every auto-generate period whose window has
// opened. Called by the cron scheduler; failures are logged per period and
// never stop the sweep.
func (s *RosterService) GenerateDuePeriods(ctx context.Context) error {
	due, err := s.periods.ListAutoGenerate(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, period := range due {
		if _, err := s.Generate(ctx, period.ClinicID, period.ID); err != nil {
			slog.Warn("auto-generation failed", "period_id", period.ID, "error", err)
		}
	}
	return nil
}
