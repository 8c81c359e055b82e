package calendar

import "errors"

var (
	ErrHolidayNotFound     = errors.New("holiday not found")
	ErrRosterNotFound      = errors.New("provider roster not found")
	ErrCombinationNotFound = errors.New("requirement combination not found")
	ErrNoRatioConfig       = errors.New("no category ratio configuration for clinic")
)
