package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medirota/roster-backend-go/internal/domain/user"
	"github.com/medirota/roster-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (id, clinic_id, email, password_hash, full_name, role, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		newUser.ClinicID, newUser.Email, newUser.PasswordHash, newUser.FullName, newUser.Role,
	).Scan(&newUser.ID, &newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return newUser, nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, email, password_hash, full_name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var u user.User
	err := q.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.ClinicID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clinic_id, email, password_hash, full_name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.ClinicID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return user.ErrUserNotFound
	}
	return nil
}

type clinicRepositoryImpl struct {
	db *database.DB
}

func NewClinicRepository(db *database.DB) user.ClinicRepository {
	return &clinicRepositoryImpl{db: db}
}

func (r *clinicRepositoryImpl) Create(ctx context.Context, clinic user.Clinic) (user.Clinic, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clinics (id, name, created_at)
		VALUES (uuidv7(), $1, NOW())
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, clinic.Name).Scan(&clinic.ID, &clinic.CreatedAt)
	if err != nil {
		return user.Clinic{}, fmt.Errorf("failed to create clinic: %w", err)
	}
	return clinic, nil
}

func (r *clinicRepositoryImpl) GetByID(ctx context.Context, id string) (user.Clinic, error) {
	q := GetQuerier(ctx, r.db)

	var c user.Clinic
	err := q.QueryRow(ctx, `SELECT id, name, created_at FROM clinics WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.Clinic{}, user.ErrClinicNotFound
		}
		return user.Clinic{}, err
	}
	return c, nil
}
