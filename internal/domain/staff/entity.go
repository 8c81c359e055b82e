package staff

import "time"

type StaffMember struct {
	ID                 string
	ClinicID           string
	FullName           string
	Department         string
	Category           string
	WorkType           WorkType
	FlexibleCategories []string
	FlexPriority       int
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

type WorkType string

const (
	WorkTypeFourDay WorkType = "four_day"
	WorkTypeFiveDay WorkType = "five_day"
)

var WorkTypeValues = []string{
	string(WorkTypeFourDay),
	string(WorkTypeFiveDay),
}

// WeeklyQuota returns the number of work days owed per calendar week.
func (s StaffMember) WeeklyQuota() int {
	if s.WorkType == WorkTypeFourDay {
		return 4
	}
	return 5
}

// CanFill reports whether the member may cover the given category, either
// natively or as pre-authorized flexible coverage.
func (s StaffMember) CanFill(category string) bool {
	if s.Category == category {
		return true
	}
	for _, c := range s.FlexibleCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsFlexibleFor reports whether filling the category would be a flexible
// (non-native) assignment.
func (s StaffMember) IsFlexibleFor(category string) bool {
	return s.Category != category && s.CanFill(category)
}
