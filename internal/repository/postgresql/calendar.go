package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

func (r *holidayRepositoryImpl) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (id, clinic_id, date, name, created_at)
		VALUES (uuidv7(), $1, $2, $3, NOW())
		ON CONFLICT (clinic_id, date) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	err := q.QueryRow(ctx, query, holiday.ClinicID, holiday.Date, holiday.Name).Scan(&holiday.ID)
	if err != nil {
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday, nil
}

func (r *holidayRepositoryImpl) GetByClinicAndRange(ctx context.Context, clinicID string, start, end time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, date, name
		FROM holidays
		WHERE clinic_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, clinicID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.ClinicID, &h.Date, &h.Name); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, nil
}

func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string, clinicID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

type providerRosterRepositoryImpl struct {
	db *database.DB
}

func NewProviderRosterRepository(db *database.DB) calendar.ProviderRosterRepository {
	return &providerRosterRepositoryImpl{db: db}
}

// Upsert keeps one roster row per clinic and date. Re-submitting a date
// replaces the provider set and the night flag.
func (r *providerRosterRepositoryImpl) Upsert(ctx context.Context, roster calendar.ProviderRoster) (calendar.ProviderRoster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO provider_rosters (id, clinic_id, date, provider_ids, has_night_session, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (clinic_id, date) DO UPDATE
			SET provider_ids = EXCLUDED.provider_ids,
				has_night_session = EXCLUDED.has_night_session,
				updated_at = NOW()
		RETURNING id
	`
	err := q.QueryRow(ctx, query,
		roster.ClinicID, roster.Date, roster.ProviderIDs, roster.HasNightSession,
	).Scan(&roster.ID)
	if err != nil {
		return calendar.ProviderRoster{}, fmt.Errorf("failed to upsert provider roster: %w", err)
	}
	return roster, nil
}

func (r *providerRosterRepositoryImpl) GetByClinicAndRange(ctx context.Context, clinicID string, start, end time.Time) ([]calendar.ProviderRoster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, date, provider_ids, has_night_session
		FROM provider_rosters
		WHERE clinic_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, clinicID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rosters []calendar.ProviderRoster
	for rows.Next() {
		var pr calendar.ProviderRoster
		if err := rows.Scan(&pr.ID, &pr.ClinicID, &pr.Date, &pr.ProviderIDs, &pr.HasNightSession); err != nil {
			return nil, err
		}
		rosters = append(rosters, pr)
	}
	return rosters, nil
}
