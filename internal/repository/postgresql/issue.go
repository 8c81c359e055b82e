package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type issueRepositoryImpl struct {
	db *database.DB
}

func NewIssueRepository(db *database.DB) roster.IssueRepository {
	return &issueRepositoryImpl{db: db}
}

func (r *issueRepositoryImpl) InsertMany(ctx context.Context, issues []roster.UnresolvedIssue) error {
	if len(issues) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO unresolved_issues (
			id, period_id, type, severity, staff_id,
			department, category, date, message, justified, carry_status,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			NOW()
		)
	`
	for _, issue := range issues {
		_, err := q.Exec(ctx, query,
			issue.ID, issue.PeriodID, issue.Type, issue.Severity, issue.StaffID,
			issue.Department, issue.Category, issue.Date, issue.Message, issue.Justified, issue.CarryStatus,
		)
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}
	}
	return nil
}

func (r *issueRepositoryImpl) GetByPeriod(ctx context.Context, periodID string) ([]roster.UnresolvedIssue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, type, severity, staff_id,
			   department, category, date, message, justified, carry_status,
			   created_at
		FROM unresolved_issues
		WHERE period_id = $1
		ORDER BY severity, created_at
	`
	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIssues(rows)
}

// GetCarriedForClinic returns pending issues from periods that ended before
// the given start date. The next generation run prioritizes their categories.
func (r *issueRepositoryImpl) GetCarriedForClinic(ctx context.Context, clinicID string, before time.Time) ([]roster.UnresolvedIssue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ui.id, ui.period_id, ui.type, ui.severity, ui.staff_id,
			   ui.department, ui.category, ui.date, ui.message, ui.justified, ui.carry_status,
			   ui.created_at
		FROM unresolved_issues ui
		JOIN schedule_periods sp ON ui.period_id = sp.id
		WHERE sp.clinic_id = $1 AND sp.end_date < $2 AND ui.carry_status = 'pending_next_period'
		ORDER BY ui.created_at
	`
	rows, err := q.Query(ctx, query, clinicID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIssues(rows)
}

func (r *issueRepositoryImpl) DeleteByPeriod(ctx context.Context, periodID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM unresolved_issues WHERE period_id = $1`, periodID)
	return err
}

func scanIssues(rows pgx.Rows) ([]roster.UnresolvedIssue, error) {
	var issues []roster.UnresolvedIssue
	for rows.Next() {
		var issue roster.UnresolvedIssue
		err := rows.Scan(
			&issue.ID, &issue.PeriodID, &issue.Type, &issue.Severity, &issue.StaffID,
			&issue.Department, &issue.Category, &issue.Date, &issue.Message, &issue.Justified, &issue.CarryStatus,
			&issue.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}
