package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type ClinicRepository interface {
	Create(ctx context.Context, clinic Clinic) (Clinic, error)
	GetByID(ctx context.Context, id string) (Clinic, error)
}
