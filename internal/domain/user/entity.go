package user

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"     // Clinic admin - full access, resolves held leave
	RoleScheduler Role = "scheduler" // Runs generation, maintains rosters and staff
)

// User is a clinic operator account. Staff members themselves do not log in;
// operators manage schedules and leave on their behalf.
type User struct {
	ID           string
	ClinicID     string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanDecideLeave reports whether the operator may confirm or release held
// leave requests.
func (u *User) CanDecideLeave() bool {
	return u.Role == RoleAdmin
}

// Clinic is the tenant boundary. Every staff member, period and config row
// belongs to exactly one clinic.
type Clinic struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
