package staff

import "context"

// StaffRepository - interface for staff_members table
type StaffRepository interface {
	Create(ctx context.Context, member StaffMember) (StaffMember, error)
	GetByID(ctx context.Context, id string, clinicID string) (StaffMember, error)
	GetByClinicID(ctx context.Context, clinicID string, filter StaffFilter) ([]StaffMember, int64, error)
	GetActiveByClinicID(ctx context.Context, clinicID string) ([]StaffMember, error)
	Update(ctx context.Context, req UpdateStaffRequest) error
	Deactivate(ctx context.Context, id string, clinicID string) error
}
