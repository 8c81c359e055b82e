package roster

import "time"

type CreatePeriodRequest struct {
	ClinicID     string `json:"-"`
	StartDate    string `json:"start_date"` // YYYY-MM-DD
	EndDate      string `json:"end_date"`
	AutoGenerate bool   `json:"auto_generate"`
}

type PeriodResponse struct {
	ID           string    `json:"id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Status       string    `json:"status"`
	AutoGenerate bool      `json:"auto_generate"`
	LastRunID    *string   `json:"last_run_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToPeriodResponse(p SchedulePeriod) PeriodResponse {
	return PeriodResponse{
		ID:           p.ID,
		StartDate:    p.StartDate.Format("2006-01-02"),
		EndDate:      p.EndDate.Format("2006-01-02"),
		Status:       string(p.Status),
		AutoGenerate: p.AutoGenerate,
		LastRunID:    p.LastRunID,
		CreatedAt:    p.CreatedAt,
	}
}

type AssignmentResponse struct {
	ID         string `json:"id"`
	StaffID    string `json:"staff_id"`
	Date       string `json:"date"`
	ShiftType  string `json:"shift_type"`
	Department string `json:"department"`
	Category   string `json:"category"`
	IsFlexible bool   `json:"is_flexible"`
}

func ToAssignmentResponse(a Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		StaffID:    a.StaffID,
		Date:       a.Date.Format("2006-01-02"),
		ShiftType:  string(a.ShiftType),
		Department: a.Department,
		Category:   a.Category,
		IsFlexible: a.IsFlexible,
	}
}

type IssueResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	StaffID     *string `json:"staff_id,omitempty"`
	Department  string  `json:"department,omitempty"`
	Category    string  `json:"category,omitempty"`
	Date        *string `json:"date,omitempty"`
	Message     string  `json:"message"`
	Justified   bool    `json:"justified"`
	CarryStatus string  `json:"carry_status"`
}

func ToIssueResponse(i UnresolvedIssue) IssueResponse {
	resp := IssueResponse{
		ID:          i.ID,
		Type:        string(i.Type),
		Severity:    string(i.Severity),
		StaffID:     i.StaffID,
		Department:  i.Department,
		Category:    i.Category,
		Message:     i.Message,
		Justified:   i.Justified,
		CarryStatus: string(i.CarryStatus),
	}
	if i.Date != nil {
		d := i.Date.Format("2006-01-02")
		resp.Date = &d
	}
	return resp
}

type FairnessScoreResponse struct {
	StaffID    string                   `json:"staff_id"`
	Overall    float64                  `json:"overall"`
	Dimensions []FairnessDimensionScore `json:"dimensions"`
}

// RunResult is the structured outcome of a generation run: assignment count
// plus the issue list partitioned by severity. Any critical issue keeps the
// period in needs_attention instead of completed.
type RunResult struct {
	RunID           string            `json:"run_id"`
	PeriodID        string            `json:"period_id"`
	State           RunState          `json:"state"`
	AssignmentCount int               `json:"assignment_count"`
	CriticalCount   int               `json:"critical_count"`
	WarningCount    int               `json:"warning_count"`
	InfoCount       int               `json:"info_count"`
	Issues          []UnresolvedIssue `json:"issues"`
}

func (r RunResult) Completed() bool {
	return r.State == StateCompleted
}
