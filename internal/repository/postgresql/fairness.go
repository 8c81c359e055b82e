package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type fairnessRepositoryImpl struct {
	db *database.DB
}

func NewFairnessRepository(db *database.DB) roster.FairnessRepository {
	return &fairnessRepositoryImpl{db: db}
}

func (r *fairnessRepositoryImpl) ReplaceForPeriod(ctx context.Context, periodID string, snapshots []roster.FairnessSnapshot) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM fairness_snapshots WHERE period_id = $1`, periodID); err != nil {
		return fmt.Errorf("failed to clear fairness snapshots: %w", err)
	}

	query := `
		INSERT INTO fairness_snapshots (id, period_id, staff_id, overall, dimensions, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	for _, snap := range snapshots {
		_, err := q.Exec(ctx, query, snap.ID, periodID, snap.StaffID, snap.Overall, snap.Dimensions)
		if err != nil {
			return fmt.Errorf("failed to insert fairness snapshot: %w", err)
		}
	}
	return nil
}

func (r *fairnessRepositoryImpl) GetByPeriod(ctx context.Context, periodID string) ([]roster.FairnessSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, staff_id, overall, dimensions, created_at
		FROM fairness_snapshots
		WHERE period_id = $1
		ORDER BY staff_id
	`
	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []roster.FairnessSnapshot
	for rows.Next() {
		var snap roster.FairnessSnapshot
		err := rows.Scan(&snap.ID, &snap.PeriodID, &snap.StaffID, &snap.Overall, &snap.Dimensions, &snap.CreatedAt)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// GetLatestByStaff returns the staff member's most recent persisted fairness
// state. The leave gate and the snapshot baseline mode both read it.
func (r *fairnessRepositoryImpl) GetLatestByStaff(ctx context.Context, staffID string) (roster.FairnessSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, staff_id, overall, dimensions, created_at
		FROM fairness_snapshots
		WHERE staff_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var snap roster.FairnessSnapshot
	err := q.QueryRow(ctx, query, staffID).Scan(
		&snap.ID, &snap.PeriodID, &snap.StaffID, &snap.Overall, &snap.Dimensions, &snap.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return roster.FairnessSnapshot{}, roster.ErrSnapshotNotFound
		}
		return roster.FairnessSnapshot{}, err
	}
	return snap, nil
}
