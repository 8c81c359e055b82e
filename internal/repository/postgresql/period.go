package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) roster.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

func (r *periodRepositoryImpl) Create(ctx context.Context, period roster.SchedulePeriod) (roster.SchedulePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedule_periods (
			id, clinic_id, start_date, end_date, status, auto_generate,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		period.ClinicID, period.StartDate, period.EndDate, period.Status, period.AutoGenerate,
	).Scan(&period.ID, &period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		return roster.SchedulePeriod{}, fmt.Errorf("failed to create schedule period: %w", err)
	}
	return period, nil
}

func (r *periodRepositoryImpl) GetByID(ctx context.Context, id string) (roster.SchedulePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, start_date, end_date, status, auto_generate,
			   last_run_id, created_at, updated_at
		FROM schedule_periods
		WHERE id = $1
	`
	var p roster.SchedulePeriod
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ClinicID, &p.StartDate, &p.EndDate, &p.Status, &p.AutoGenerate,
		&p.LastRunID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return roster.SchedulePeriod{}, roster.ErrPeriodNotFound
		}
		return roster.SchedulePeriod{}, err
	}
	return p, nil
}

func (r *periodRepositoryImpl) GetByClinicAndStart(ctx context.Context, clinicID string, start time.Time) (roster.SchedulePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, start_date, end_date, status, auto_generate,
			   last_run_id, created_at, updated_at
		FROM schedule_periods
		WHERE clinic_id = $1 AND start_date = $2
	`
	var p roster.SchedulePeriod
	err := q.QueryRow(ctx, query, clinicID, start).Scan(
		&p.ID, &p.ClinicID, &p.StartDate, &p.EndDate, &p.Status, &p.AutoGenerate,
		&p.LastRunID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return roster.SchedulePeriod{}, roster.ErrPeriodNotFound
		}
		return roster.SchedulePeriod{}, err
	}
	return p, nil
}

func (r *periodRepositoryImpl) ListByClinic(ctx context.Context, clinicID string, limit int) ([]roster.SchedulePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, start_date, end_date, status, auto_generate,
			   last_run_id, created_at, updated_at
		FROM schedule_periods
		WHERE clinic_id = $1
		ORDER BY start_date DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, clinicID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPeriods(rows)
}

func (r *periodRepositoryImpl) ListAutoGenerate(ctx context.Context, before time.Time) ([]roster.SchedulePeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, start_date, end_date, status, auto_generate,
			   last_run_id, created_at, updated_at
		FROM schedule_periods
		WHERE auto_generate = TRUE AND status = 'draft' AND start_date <= $1
		ORDER BY start_date
	`
	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPeriods(rows)
}

// TransitionStatus is a compare-and-set on the status column. The row only
// moves when it is still in the expected state, which makes the period status
// a safe single-writer run lock under concurrent callers.
func (r *periodRepositoryImpl) TransitionStatus(ctx context.Context, id string, from, to roster.PeriodStatus, runID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedule_periods
		SET status = $3, last_run_id = COALESCE($4, last_run_id), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	commandTag, err := q.Exec(ctx, query, id, from, to, runID)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

func (r *periodRepositoryImpl) SetStatus(ctx context.Context, id string, status roster.PeriodStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`UPDATE schedule_periods SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return roster.ErrPeriodNotFound
	}
	return nil
}

func scanPeriods(rows pgx.Rows) ([]roster.SchedulePeriod, error) {
	var periods []roster.SchedulePeriod
	for rows.Next() {
		var p roster.SchedulePeriod
		err := rows.Scan(
			&p.ID, &p.ClinicID, &p.StartDate, &p.EndDate, &p.Status, &p.AutoGenerate,
			&p.LastRunID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}
