package postgresql

import (
	"context"
	"fmt"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type snapshotRepositoryImpl struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) roster.SnapshotRepository {
	return &snapshotRepositoryImpl{db: db}
}

func (r *snapshotRepositoryImpl) Insert(ctx context.Context, snapshot roster.RunSnapshot) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO run_snapshots (id, period_id, run_id, phase, summary, taken_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := q.Exec(ctx, query,
		snapshot.ID, snapshot.PeriodID, snapshot.RunID, snapshot.Phase, snapshot.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepositoryImpl) GetByRun(ctx context.Context, runID string) ([]roster.RunSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, run_id, phase, summary, taken_at
		FROM run_snapshots
		WHERE run_id = $1
		ORDER BY taken_at
	`
	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []roster.RunSnapshot
	for rows.Next() {
		var snap roster.RunSnapshot
		err := rows.Scan(&snap.ID, &snap.PeriodID, &snap.RunID, &snap.Phase, &snap.Summary, &snap.TakenAt)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
