package roster

import (
	"context"
	"time"
)

// PeriodRepository - interface for schedule_periods table
type PeriodRepository interface {
	Create(ctx context.Context, period SchedulePeriod) (SchedulePeriod, error)
	GetByID(ctx context.Context, id string) (SchedulePeriod, error)
	GetByClinicAndStart(ctx context.Context, clinicID string, start time.Time) (SchedulePeriod, error)
	ListByClinic(ctx context.Context, clinicID string, limit int) ([]SchedulePeriod, error)
	ListAutoGenerate(ctx context.Context, before time.Time) ([]SchedulePeriod, error)
	// TransitionStatus performs a compare-and-set on the period status and
	// reports whether the transition happened. It is the run lock.
	TransitionStatus(ctx context.Context, id string, from, to PeriodStatus, runID *string) (bool, error)
	SetStatus(ctx context.Context, id string, status PeriodStatus) error
}

// AssignmentRepository - interface for assignments table
type AssignmentRepository interface {
	// ReplaceForPeriod deletes every assignment row of the period and inserts
	// the new set. Callers wrap it in a transaction so no partial state is
	// ever observable.
	ReplaceForPeriod(ctx context.Context, periodID string, assignments []Assignment) error
	GetByPeriod(ctx context.Context, periodID string) ([]Assignment, error)
	GetByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]Assignment, error)
	CountByPeriod(ctx context.Context, periodID string) (int64, error)
}

// IssueRepository - interface for unresolved_issues table
type IssueRepository interface {
	InsertMany(ctx context.Context, issues []UnresolvedIssue) error
	GetByPeriod(ctx context.Context, periodID string) ([]UnresolvedIssue, error)
	GetCarriedForClinic(ctx context.Context, clinicID string, before time.Time) ([]UnresolvedIssue, error)
	DeleteByPeriod(ctx context.Context, periodID string) error
}

// FairnessRepository - interface for fairness_snapshots table
type FairnessRepository interface {
	ReplaceForPeriod(ctx context.Context, periodID string, snapshots []FairnessSnapshot) error
	GetByPeriod(ctx context.Context, periodID string) ([]FairnessSnapshot, error)
	GetLatestByStaff(ctx context.Context, staffID string) (FairnessSnapshot, error)
}

// SnapshotRepository - interface for run_snapshots table
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot RunSnapshot) error
	GetByRun(ctx context.Context, runID string) ([]RunSnapshot, error)
}
