package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/staff"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

func (r *staffRepositoryImpl) Create(ctx context.Context, member staff.StaffMember) (staff.StaffMember, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff_members (
			id, clinic_id, full_name, department, category,
			work_type, flexible_categories, flex_priority, active,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, TRUE,
			NOW(), NOW()
		) RETURNING id, active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		member.ClinicID, member.FullName, member.Department, member.Category,
		member.WorkType, member.FlexibleCategories, member.FlexPriority,
	).Scan(&member.ID, &member.Active, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return staff.StaffMember{}, fmt.Errorf("failed to create staff member: %w", err)
	}

	return member, nil
}

func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string, clinicID string) (staff.StaffMember, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, full_name, department, category,
			   work_type, flexible_categories, flex_priority, active,
			   created_at, updated_at, deleted_at
		FROM staff_members
		WHERE id = $1 AND clinic_id = $2 AND deleted_at IS NULL
	`

	var m staff.StaffMember
	err := q.QueryRow(ctx, query, id, clinicID).Scan(
		&m.ID, &m.ClinicID, &m.FullName, &m.Department, &m.Category,
		&m.WorkType, &m.FlexibleCategories, &m.FlexPriority, &m.Active,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.StaffMember{}, staff.ErrStaffNotFound
		}
		return staff.StaffMember{}, err
	}
	return m, nil
}

func (r *staffRepositoryImpl) GetByClinicID(ctx context.Context, clinicID string, filter staff.StaffFilter) ([]staff.StaffMember, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"clinic_id = $1", "deleted_at IS NULL"}
	args := []interface{}{clinicID}
	argIdx := 2

	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *filter.Active)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM staff_members WHERE %s", where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`
		SELECT id, clinic_id, full_name, department, category,
			   work_type, flexible_categories, flex_priority, active,
			   created_at, updated_at, deleted_at
		FROM staff_members
		WHERE %s
		ORDER BY department, category, full_name
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []staff.StaffMember
	for rows.Next() {
		var m staff.StaffMember
		err := rows.Scan(
			&m.ID, &m.ClinicID, &m.FullName, &m.Department, &m.Category,
			&m.WorkType, &m.FlexibleCategories, &m.FlexPriority, &m.Active,
			&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}

	return members, total, nil
}

func (r *staffRepositoryImpl) GetActiveByClinicID(ctx context.Context, clinicID string) ([]staff.StaffMember, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, full_name, department, category,
			   work_type, flexible_categories, flex_priority, active,
			   created_at, updated_at, deleted_at
		FROM staff_members
		WHERE clinic_id = $1 AND active = TRUE AND deleted_at IS NULL
		ORDER BY department, category, full_name
	`

	rows, err := q.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []staff.StaffMember
	for rows.Next() {
		var m staff.StaffMember
		err := rows.Scan(
			&m.ID, &m.ClinicID, &m.FullName, &m.Department, &m.Category,
			&m.WorkType, &m.FlexibleCategories, &m.FlexPriority, &m.Active,
			&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, nil
}

func (r *staffRepositoryImpl) Update(ctx context.Context, req staff.UpdateStaffRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.WorkType != nil {
		updates["work_type"] = *req.WorkType
	}
	if req.FlexibleCategories != nil {
		updates["flexible_categories"] = *req.FlexibleCategories
	}
	if req.FlexPriority != nil {
		updates["flex_priority"] = *req.FlexPriority
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+2)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf(
		"UPDATE staff_members SET %s WHERE id = $%d AND clinic_id = $%d AND deleted_at IS NULL RETURNING id",
		strings.Join(setClauses, ", "), i, i+1,
	)
	args = append(args, req.ID, req.ClinicID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return staff.ErrStaffNotFound
		}
		return fmt.Errorf("failed to update staff member %s: %w", req.ID, err)
	}
	return nil
}

func (r *staffRepositoryImpl) Deactivate(ctx context.Context, id string, clinicID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE staff_members
		SET active = FALSE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND clinic_id = $2 AND deleted_at IS NULL
	`
	commandTag, err := q.Exec(ctx, query, id, clinicID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return staff.ErrStaffNotFound
	}
	return nil
}
