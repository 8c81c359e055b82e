package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) roster.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

// ReplaceForPeriod deletes the period's assignment rows and bulk-inserts the
// new set. Callers run it inside a transaction so readers never observe a
// half-replaced roster.
func (r *assignmentRepositoryImpl) ReplaceForPeriod(ctx context.Context, periodID string, assignments []roster.Assignment) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM assignments WHERE period_id = $1`, periodID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, []interface{}{
			a.ID, periodID, a.StaffID, a.Date, a.ShiftType,
			a.Department, a.Category, a.IsFlexible,
		})
	}

	copied, err := copyFrom(ctx, r.db, pgx.Identifier{"assignments"},
		[]string{"id", "period_id", "staff_id", "date", "shift_type", "department", "category", "is_flexible"},
		rows,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}
	if copied != int64(len(assignments)) {
		return fmt.Errorf("inserted %d of %d assignments", copied, len(assignments))
	}
	return nil
}

// copyFrom routes COPY through the ambient transaction when one is on the
// context, matching how GetQuerier picks its querier.
func copyFrom(ctx context.Context, db *database.DB, table pgx.Identifier, columns []string, rows [][]interface{}) (int64, error) {
	if tx, ok := ctx.Value("tx").(pgx.Tx); ok {
		return tx.CopyFrom(ctx, table, columns, pgx.CopyFromRows(rows))
	}
	return db.Pool.CopyFrom(ctx, table, columns, pgx.CopyFromRows(rows))
}

func (r *assignmentRepositoryImpl) GetByPeriod(ctx context.Context, periodID string) ([]roster.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, staff_id, date, shift_type,
			   department, category, is_flexible, created_at
		FROM assignments
		WHERE period_id = $1
		ORDER BY date, staff_id
	`
	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignments(rows)
}

func (r *assignmentRepositoryImpl) GetByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]roster.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, staff_id, date, shift_type,
			   department, category, is_flexible, created_at
		FROM assignments
		WHERE staff_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, staffID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignments(rows)
}

func (r *assignmentRepositoryImpl) CountByPeriod(ctx context.Context, periodID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM assignments WHERE period_id = $1`, periodID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanAssignments(rows pgx.Rows) ([]roster.Assignment, error) {
	var assignments []roster.Assignment
	for rows.Next() {
		var a roster.Assignment
		err := rows.Scan(
			&a.ID, &a.PeriodID, &a.StaffID, &a.Date, &a.ShiftType,
			&a.Department, &a.Category, &a.IsFlexible, &a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
