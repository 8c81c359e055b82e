package leave

import "errors"

var (
	ErrLeaveNotFound        = errors.New("leave record not found")
	ErrLeaveAlreadyDecided  = errors.New("leave record already decided")
	ErrDuplicateLeave       = errors.New("leave already requested for this date")
	ErrFairnessGateRejected = errors.New("fairness score below the leave application threshold")
	ErrInvalidLeaveType     = errors.New("leave type must be 'annual' or 'off'")
	ErrDateOutsideSchedule  = errors.New("leave date falls on a non-business day")
)
