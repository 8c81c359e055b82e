package response

import (
	"errors"
	"net/http"

	"github.com/medirota/roster-backend-go/internal/domain/auth"
	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
	"github.com/medirota/roster-backend-go/internal/domain/user"
	"github.com/medirota/roster-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserAlreadyExists):
		Conflict(w, "An account with this email already exists")
	case errors.Is(err, user.ErrClinicNotFound):
		NotFound(w, "Clinic not found")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrInvalidWorkType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, staff.ErrStaffAlreadyRetired):
		Conflict(w, "Staff member is no longer active")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave record not found")
	case errors.Is(err, leave.ErrLeaveAlreadyDecided):
		Conflict(w, "Leave record already decided")
	case errors.Is(err, leave.ErrDuplicateLeave):
		Conflict(w, "Leave already requested for this date")
	case errors.Is(err, leave.ErrInvalidLeaveType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrDateOutsideSchedule):
		BadRequest(w, err.Error(), nil)

	// Roster domain errors
	case errors.Is(err, roster.ErrPeriodNotFound):
		NotFound(w, "Schedule period not found")
	case errors.Is(err, roster.ErrRunInProgress):
		Conflict(w, "A generation run is already in progress for this period")
	case errors.Is(err, roster.ErrPeriodDateInvalid):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, roster.ErrMissingRatioConfig):
		BadRequest(w, "Category ratio configuration is missing", nil)
	case errors.Is(err, roster.ErrSnapshotNotFound):
		NotFound(w, "Run snapshot not found")

	// Calendar domain errors
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, calendar.ErrCombinationNotFound):
		NotFound(w, "Requirement combination not found")
	case errors.Is(err, calendar.ErrNoRatioConfig):
		BadRequest(w, "No category ratio configuration for clinic", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
