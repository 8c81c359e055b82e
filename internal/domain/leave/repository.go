package leave

import (
	"context"
	"time"
)

// LeaveRepository - interface for leave_records table
type LeaveRepository interface {
	Create(ctx context.Context, record LeaveRecord) (LeaveRecord, error)
	GetByID(ctx context.Context, id string) (LeaveRecord, error)
	GetByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]LeaveRecord, error)
	GetByClinicAndRange(ctx context.Context, clinicID string, start, end time.Time, statuses []LeaveStatus) ([]LeaveRecord, error)
	GetOnHoldByClinic(ctx context.Context, clinicID string) ([]LeaveRecord, error)
	ExistsForDate(ctx context.Context, staffID string, date time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id string, status LeaveStatus, decidedBy *string, holdReason *string) error
}
