package roster

import "errors"

var (
	ErrPeriodNotFound    = errors.New("schedule period not found")
	ErrRunInProgress     = errors.New("a generation run is already in progress for this period")
	ErrPeriodDateInvalid = errors.New("period end date must not precede start date")

	// ErrMissingRatioConfig is a configuration error: the run aborts before
	// any writes and the period status rolls back.
	ErrMissingRatioConfig = errors.New("category ratio configuration is missing")

	ErrSnapshotNotFound = errors.New("run snapshot not found")
)
