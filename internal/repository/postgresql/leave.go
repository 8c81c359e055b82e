package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_records (
			id, clinic_id, staff_id, date, type, status,
			reason, decided_by, decided_at, hold_reason,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ClinicID, record.StaffID, record.Date, record.Type, record.Status,
		record.Reason, record.DecidedBy, record.DecidedAt, record.HoldReason,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return leave.LeaveRecord{}, fmt.Errorf("failed to create leave record: %w", err)
	}

	return record, nil
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.clinic_id, lr.staff_id, lr.date, lr.type, lr.status,
			   lr.reason, lr.decided_by, lr.decided_at, lr.hold_reason,
			   lr.created_at, lr.updated_at,
			   sm.full_name AS staff_name
		FROM leave_records lr
		JOIN staff_members sm ON lr.staff_id = sm.id
		WHERE lr.id = $1
	`

	var rec leave.LeaveRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.ClinicID, &rec.StaffID, &rec.Date, &rec.Type, &rec.Status,
		&rec.Reason, &rec.DecidedBy, &rec.DecidedAt, &rec.HoldReason,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.StaffName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRecord{}, leave.ErrLeaveNotFound
		}
		return leave.LeaveRecord{}, err
	}
	return rec, nil
}

func (r *leaveRepositoryImpl) GetByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, staff_id, date, type, status,
			   reason, decided_by, decided_at, hold_reason,
			   created_at, updated_at
		FROM leave_records
		WHERE staff_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, staffID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeaveRecords(rows)
}

func (r *leaveRepositoryImpl) GetByClinicAndRange(ctx context.Context, clinicID string, start, end time.Time, statuses []leave.LeaveStatus) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, staff_id, date, type, status,
			   reason, decided_by, decided_at, hold_reason,
			   created_at, updated_at
		FROM leave_records
		WHERE clinic_id = $1 AND date BETWEEN $2 AND $3
	`
	args := []interface{}{clinicID, start, end}
	if len(statuses) > 0 {
		query += " AND status = ANY($4)"
		args = append(args, statuses)
	}
	query += " ORDER BY date, staff_id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeaveRecords(rows)
}

func (r *leaveRepositoryImpl) GetOnHoldByClinic(ctx context.Context, clinicID string) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.clinic_id, lr.staff_id, lr.date, lr.type, lr.status,
			   lr.reason, lr.decided_by, lr.decided_at, lr.hold_reason,
			   lr.created_at, lr.updated_at,
			   sm.full_name AS staff_name
		FROM leave_records lr
		JOIN staff_members sm ON lr.staff_id = sm.id
		WHERE lr.clinic_id = $1 AND lr.status = 'on_hold'
		ORDER BY lr.date, lr.staff_id
	`

	rows, err := q.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []leave.LeaveRecord
	for rows.Next() {
		var rec leave.LeaveRecord
		err := rows.Scan(
			&rec.ID, &rec.ClinicID, &rec.StaffID, &rec.Date, &rec.Type, &rec.Status,
			&rec.Reason, &rec.DecidedBy, &rec.DecidedAt, &rec.HoldReason,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.StaffName,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *leaveRepositoryImpl) ExistsForDate(ctx context.Context, staffID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_records
			WHERE staff_id = $1 AND date = $2 AND status != 'cancelled'
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, staffID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.LeaveStatus, decidedBy *string, holdReason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_records
		SET status = $2, decided_by = $3, decided_at = NOW(), hold_reason = $4, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id, status, decidedBy, holdReason)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

func scanLeaveRecords(rows pgx.Rows) ([]leave.LeaveRecord, error) {
	var records []leave.LeaveRecord
	for rows.Next() {
		var rec leave.LeaveRecord
		err := rows.Scan(
			&rec.ID, &rec.ClinicID, &rec.StaffID, &rec.Date, &rec.Type, &rec.Status,
			&rec.Reason, &rec.DecidedBy, &rec.DecidedAt, &rec.HoldReason,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
