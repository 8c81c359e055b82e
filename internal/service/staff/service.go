package staff

import (
	"context"

	"github.com/medirota/roster-backend-go/internal/domain/staff"
	"github.com/medirota/roster-backend-go/internal/pkg/validator"
)

type StaffService struct {
	repo staff.StaffRepository
}

func NewStaffService(repo staff.StaffRepository) *StaffService {
	return &StaffService{repo: repo}
}

func (s *StaffService) Create(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if !validator.IsInSlice(req.WorkType, staff.WorkTypeValues) {
		return staff.StaffResponse{}, staff.ErrInvalidWorkType
	}

	member, err := s.repo.Create(ctx, staff.StaffMember{
		ClinicID:           req.ClinicID,
		FullName:           req.FullName,
		Department:         req.Department,
		Category:           req.Category,
		WorkType:           staff.WorkType(req.WorkType),
		FlexibleCategories: req.FlexibleCategories,
		FlexPriority:       req.FlexPriority,
	})
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.ToResponse(member), nil
}

func (s *StaffService) Get(ctx context.Context, id, clinicID string) (staff.StaffResponse, error) {
	member, err := s.repo.GetByID(ctx, id, clinicID)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.ToResponse(member), nil
}

func (s *StaffService) List(ctx context.Context, clinicID string, filter staff.StaffFilter) (staff.ListStaffResponse, error) {
	members, total, err := s.repo.GetByClinicID(ctx, clinicID, filter)
	if err != nil {
		return staff.ListStaffResponse{}, err
	}
	out := staff.ListStaffResponse{
		Staff: make([]staff.StaffResponse, 0, len(members)),
		Total: total,
	}
	for _, m := range members {
		out.Staff = append(out.Staff, staff.ToResponse(m))
	}
	return out, nil
}

func (s *StaffService) Update(ctx context.Context, req staff.UpdateStaffRequest) (staff.StaffResponse, error) {
	if req.WorkType != nil && !validator.IsInSlice(*req.WorkType, staff.WorkTypeValues) {
		return staff.StaffResponse{}, staff.ErrInvalidWorkType
	}
	if err := s.repo.Update(ctx, req); err != nil {
		return staff.StaffResponse{}, err
	}
	return s.Get(ctx, req.ID, req.ClinicID)
}

// Deactivate retires a staff member. Past assignments stay; future runs just
// stop considering them.
func (s *StaffService) Deactivate(ctx context.Context, id, clinicID string) error {
	return s.repo.Deactivate(ctx, id, clinicID)
}
