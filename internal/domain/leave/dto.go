package leave

import "time"

type ApplyLeaveRequest struct {
	ClinicID string `json:"-"`
	StaffID  string `json:"staff_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}

type ResolveOnHoldRequest struct {
	ClinicID  string `json:"-"`
	LeaveID   string `json:"-"`
	DecidedBy string `json:"-"`
	Approve   bool   `json:"approve"`
	Reason    string `json:"reason"`
}

type LeaveFilter struct {
	StaffID *string
	Status  *string
	Start   *time.Time
	End     *time.Time
	Page    int
	Limit   int
}

type LeaveResponse struct {
	ID         string     `json:"id"`
	StaffID    string     `json:"staff_id"`
	StaffName  *string    `json:"staff_name,omitempty"`
	Date       string     `json:"date"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	Reason     *string    `json:"reason,omitempty"`
	HoldReason *string    `json:"hold_reason,omitempty"`
	DecidedBy  *string    `json:"decided_by,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func ToResponse(r LeaveRecord) LeaveResponse {
	return LeaveResponse{
		ID:         r.ID,
		StaffID:    r.StaffID,
		StaffName:  r.StaffName,
		Date:       r.Date.Format("2006-01-02"),
		Type:       string(r.Type),
		Status:     string(r.Status),
		Reason:     r.Reason,
		HoldReason: r.HoldReason,
		DecidedBy:  r.DecidedBy,
		DecidedAt:  r.DecidedAt,
		CreatedAt:  r.CreatedAt,
	}
}

// GateResult is what the leave-application gate reports back to the caller:
// the overall fairness score that was checked and the threshold it was
// checked against.
type GateResult struct {
	Allowed   bool    `json:"allowed"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
}
