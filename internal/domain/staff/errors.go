package staff

import "errors"

var (
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrStaffAlreadyExists  = errors.New("staff member already exists")
	ErrInvalidWorkType     = errors.New("work type must be 'four_day' or 'five_day'")
	ErrStaffAlreadyRetired = errors.New("staff member is no longer active")
)
