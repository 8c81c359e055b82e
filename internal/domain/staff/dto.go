package staff

import "time"

type CreateStaffRequest struct {
	ClinicID           string   `json:"-"`
	FullName           string   `json:"full_name"`
	Department         string   `json:"department"`
	Category           string   `json:"category"`
	WorkType           string   `json:"work_type"`
	FlexibleCategories []string `json:"flexible_categories"`
	FlexPriority       int      `json:"flex_priority"`
}

type UpdateStaffRequest struct {
	ID                 string    `json:"-"`
	ClinicID           string    `json:"-"`
	FullName           *string   `json:"full_name"`
	Department         *string   `json:"department"`
	Category           *string   `json:"category"`
	WorkType           *string   `json:"work_type"`
	FlexibleCategories *[]string `json:"flexible_categories"`
	FlexPriority       *int      `json:"flex_priority"`
	Active             *bool     `json:"active"`
}

type StaffFilter struct {
	Department *string
	Category   *string
	Active     *bool
	Search     *string
	Page       int
	Limit      int
}

type StaffResponse struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"full_name"`
	Department         string    `json:"department"`
	Category           string    `json:"category"`
	WorkType           string    `json:"work_type"`
	WeeklyQuota        int       `json:"weekly_quota"`
	FlexibleCategories []string  `json:"flexible_categories"`
	FlexPriority       int       `json:"flex_priority"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func ToResponse(m StaffMember) StaffResponse {
	return StaffResponse{
		ID:                 m.ID,
		FullName:           m.FullName,
		Department:         m.Department,
		Category:           m.Category,
		WorkType:           string(m.WorkType),
		WeeklyQuota:        m.WeeklyQuota(),
		FlexibleCategories: m.FlexibleCategories,
		FlexPriority:       m.FlexPriority,
		Active:             m.Active,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type ListStaffResponse struct {
	Staff []StaffResponse `json:"staff"`
	Total int64           `json:"total"`
}
