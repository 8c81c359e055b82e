package postgresql

import (
	"context"
	"fmt"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type combinationRepositoryImpl struct {
	db *database.DB
}

func NewCombinationRepository(db *database.DB) calendar.CombinationRepository {
	return &combinationRepositoryImpl{db: db}
}

func (r *combinationRepositoryImpl) Create(ctx context.Context, combo calendar.RequirementCombination) (calendar.RequirementCombination, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO requirement_combinations (
			id, clinic_id, provider_ids, has_night_session,
			total_required, department_required, categories,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			NOW(), NOW()
		) RETURNING id
	`
	err := q.QueryRow(ctx, query,
		combo.ClinicID, combo.ProviderIDs, combo.HasNightSession,
		combo.TotalRequired, combo.DepartmentRequired, combo.Categories,
	).Scan(&combo.ID)
	if err != nil {
		return calendar.RequirementCombination{}, fmt.Errorf("failed to create requirement combination: %w", err)
	}
	return combo, nil
}

func (r *combinationRepositoryImpl) GetByClinicID(ctx context.Context, clinicID string) ([]calendar.RequirementCombination, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, provider_ids, has_night_session,
			   total_required, department_required, categories
		FROM requirement_combinations
		WHERE clinic_id = $1
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var combos []calendar.RequirementCombination
	for rows.Next() {
		var c calendar.RequirementCombination
		err := rows.Scan(
			&c.ID, &c.ClinicID, &c.ProviderIDs, &c.HasNightSession,
			&c.TotalRequired, &c.DepartmentRequired, &c.Categories,
		)
		if err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}
	return combos, nil
}

func (r *combinationRepositoryImpl) Delete(ctx context.Context, id string, clinicID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM requirement_combinations WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return calendar.ErrCombinationNotFound
	}
	return nil
}

type ratioRepositoryImpl struct {
	db *database.DB
}

func NewRatioRepository(db *database.DB) calendar.RatioRepository {
	return &ratioRepositoryImpl{db: db}
}

// Replace swaps the clinic's whole ratio set. Percent shares are validated at
// the service layer; storage only keeps the latest set.
func (r *ratioRepositoryImpl) Replace(ctx context.Context, clinicID string, ratios []calendar.RatioConfig) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM category_ratios WHERE clinic_id = $1`, clinicID); err != nil {
		return fmt.Errorf("failed to clear category ratios: %w", err)
	}

	query := `
		INSERT INTO category_ratios (id, clinic_id, department, category, percent, sort_order, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW())
	`
	for _, ratio := range ratios {
		if _, err := q.Exec(ctx, query,
			clinicID, ratio.Department, ratio.Category, ratio.Percent, ratio.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert category ratio: %w", err)
		}
	}
	return nil
}

func (r *ratioRepositoryImpl) GetByClinicID(ctx context.Context, clinicID string) ([]calendar.RatioConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, department, category, percent, sort_order
		FROM category_ratios
		WHERE clinic_id = $1
		ORDER BY sort_order
	`
	rows, err := q.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratios []calendar.RatioConfig
	for rows.Next() {
		var rc calendar.RatioConfig
		if err := rows.Scan(&rc.ID, &rc.ClinicID, &rc.Department, &rc.Category, &rc.Percent, &rc.SortOrder); err != nil {
			return nil, err
		}
		ratios = append(ratios, rc)
	}
	return ratios, nil
}

type dimensionRepositoryImpl struct {
	db *database.DB
}

func NewDimensionRepository(db *database.DB) calendar.DimensionRepository {
	return &dimensionRepositoryImpl{db: db}
}

func (r *dimensionRepositoryImpl) Upsert(ctx context.Context, cfg calendar.DimensionConfig) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fairness_dimension_configs (clinic_id, dimension, enabled, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (clinic_id, dimension) DO UPDATE
			SET enabled = EXCLUDED.enabled, updated_at = NOW()
	`
	_, err := q.Exec(ctx, query, cfg.ClinicID, cfg.Dimension, cfg.Enabled)
	if err != nil {
		return fmt.Errorf("failed to upsert dimension config: %w", err)
	}
	return nil
}

func (r *dimensionRepositoryImpl) GetByClinicID(ctx context.Context, clinicID string) ([]calendar.DimensionConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT clinic_id, dimension, enabled
		FROM fairness_dimension_configs
		WHERE clinic_id = $1
		ORDER BY dimension
	`
	rows, err := q.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []calendar.DimensionConfig
	for rows.Next() {
		var cfg calendar.DimensionConfig
		if err := rows.Scan(&cfg.ClinicID, &cfg.Dimension, &cfg.Enabled); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
