package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

// Gate thresholds: an application is only auto-confirmed when the staff
// member's latest overall fairness score clears the bar for the leave type.
// Annual leave is cheaper to grant than a plain day off because it still
// counts toward the quota.
const (
	annualThreshold = 60.0
	offThreshold    = 75.0
)

type LeaveService struct {
	leaves   leave.LeaveRepository
	staff    staff.StaffRepository
	fairness roster.FairnessRepository
}

func NewLeaveService(leaves leave.LeaveRepository, staffRepo staff.StaffRepository, fairness roster.FairnessRepository) *LeaveService {
	return &LeaveService{leaves: leaves, staff: staffRepo, fairness: fairness}
}

// CheckGate evaluates the fairness gate for a staff member and leave type
// without creating anything. Staff with no fairness history pass: a new hire
// has earned no imbalance.
func (s *LeaveService) CheckGate(ctx context.Context, staffID string, leaveType leave.LeaveType) (leave.GateResult, error) {
	threshold := annualThreshold
	if leaveType == leave.LeaveOff {
		threshold = offThreshold
	}

	snap, err := s.fairness.GetLatestByStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, roster.ErrSnapshotNotFound) {
			return leave.GateResult{Allowed: true, Score: 100, Threshold: threshold}, nil
		}
		return leave.GateResult{}, fmt.Errorf("failed to load fairness snapshot: %w", err)
	}

	return leave.GateResult{
		Allowed:   snap.Overall >= threshold,
		Score:     snap.Overall,
		Threshold: threshold,
	}, nil
}

// Apply records a leave application. Applications that clear the fairness
// gate are confirmed immediately; the rest are parked on hold for an admin
// decision instead of being rejected outright.
func (s *LeaveService) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, leave.GateResult, error) {
	leaveType := leave.LeaveType(req.Type)
	if leaveType != leave.LeaveAnnual && leaveType != leave.LeaveOff {
		return leave.LeaveResponse{}, leave.GateResult{}, leave.ErrInvalidLeaveType
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return leave.LeaveResponse{}, leave.GateResult{}, fmt.Errorf("invalid date: %w", err)
	}
	if date.Weekday() == time.Sunday {
		return leave.LeaveResponse{}, leave.GateResult{}, leave.ErrDateOutsideSchedule
	}

	member, err := s.staff.GetByID(ctx, req.StaffID, req.ClinicID)
	if err != nil {
		return leave.LeaveResponse{}, leave.GateResult{}, err
	}
	if !member.Active {
		return leave.LeaveResponse{}, leave.GateResult{}, staff.ErrStaffAlreadyRetired
	}

	exists, err := s.leaves.ExistsForDate(ctx, member.ID, date)
	if err != nil {
		return leave.LeaveResponse{}, leave.GateResult{}, fmt.Errorf("failed to check existing leave: %w", err)
	}
	if exists {
		return leave.LeaveResponse{}, leave.GateResult{}, leave.ErrDuplicateLeave
	}

	gate, err := s.CheckGate(ctx, member.ID, leaveType)
	if err != nil {
		return leave.LeaveResponse{}, leave.GateResult{}, err
	}

	record := leave.LeaveRecord{
		ClinicID: req.ClinicID,
		StaffID:  member.ID,
		Date:     date,
		Type:     leaveType,
	}
	if req.Reason != "" {
		record.Reason = &req.Reason
	}

	if gate.Allowed {
		record.Status = leave.LeaveStatusConfirmed
	} else {
		record.Status = leave.LeaveStatusOnHold
		holdReason := fmt.Sprintf("fairness score %.1f below %s threshold %.0f", gate.Score, leaveType, gate.Threshold)
		record.HoldReason = &holdReason
	}

	created, err := s.leaves.Create(ctx, record)
	if err != nil {
		return leave.LeaveResponse{}, leave.GateResult{}, err
	}

	slog.Info("leave application recorded",
		"staff_id", member.ID,
		"date", req.Date,
		"type", req.Type,
		"status", created.Status,
		"gate_score", gate.Score,
	)
	return leave.ToResponse(created), gate, nil
}

// ResolveOnHold is the admin decision on a held application.
func (s *LeaveService) ResolveOnHold(ctx context.Context, req leave.ResolveOnHoldRequest) (leave.LeaveResponse, error) {
	record, err := s.leaves.GetByID(ctx, req.LeaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if record.ClinicID != req.ClinicID {
		return leave.LeaveResponse{}, leave.ErrLeaveNotFound
	}
	if record.Status != leave.LeaveStatusOnHold {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyDecided
	}

	status := leave.LeaveStatusCancelled
	if req.Approve {
		status = leave.LeaveStatusConfirmed
	}

	var holdReason *string
	if req.Reason != "" {
		holdReason = &req.Reason
	}
	if err := s.leaves.UpdateStatus(ctx, record.ID, status, &req.DecidedBy, holdReason); err != nil {
		return leave.LeaveResponse{}, err
	}

	record.Status = status
	record.DecidedBy = &req.DecidedBy
	now := time.Now()
	record.DecidedAt = &now
	record.HoldReason = holdReason

	slog.Info("on-hold leave decided",
		"leave_id", record.ID,
		"staff_id", record.StaffID,
		"status", status,
		"decided_by", req.DecidedBy,
	)
	return leave.ToResponse(record), nil
}

// ListOnHold returns the clinic's pending admin decisions.
func (s *LeaveService) ListOnHold(ctx context.Context, clinicID string) ([]leave.LeaveResponse, error) {
	records, err := s.leaves.GetOnHoldByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	out := make([]leave.LeaveResponse, 0, len(records))
	for _, r := range records {
		out = append(out, leave.ToResponse(r))
	}
	return out, nil
}

// ListByRange returns the clinic's leave records over a date window, any
// status.
func (s *LeaveService) ListByRange(ctx context.Context, clinicID string, start, end time.Time) ([]leave.LeaveResponse, error) {
	records, err := s.leaves.GetByClinicAndRange(ctx, clinicID, start, end, nil)
	if err != nil {
		return nil, err
	}
	out := make([]leave.LeaveResponse, 0, len(records))
	for _, r := range records {
		out = append(out, leave.ToResponse(r))
	}
	return out, nil
}
