package leave

import "time"

type LeaveRecord struct {
	ID         string
	ClinicID   string
	StaffID    string
	Date       time.Time
	Type       LeaveType
	Status     LeaveStatus
	Reason     *string
	DecidedBy  *string
	DecidedAt  *time.Time
	HoldReason *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	StaffName *string
}

type LeaveType string

const (
	// LeaveAnnual consumes a paid annual-leave day. It still counts toward
	// the weekly quota and the total fairness dimension.
	LeaveAnnual LeaveType = "annual"
	// LeaveOff is a plain day off with no quota offset.
	LeaveOff LeaveType = "off"
)

var LeaveTypeValues = []string{
	string(LeaveAnnual),
	string(LeaveOff),
}

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusConfirmed LeaveStatus = "confirmed"
	LeaveStatusOnHold    LeaveStatus = "on_hold"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

var LeaveStatusValues = []string{
	string(LeaveStatusPending),
	string(LeaveStatusConfirmed),
	string(LeaveStatusOnHold),
	string(LeaveStatusCancelled),
}

// Blocks reports whether the record excludes its staff member from work
// assignment on its date. Only confirmed leave blocks.
func (r LeaveRecord) Blocks() bool {
	return r.Status == LeaveStatusConfirmed
}
