package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

type fakeLeaveRepo struct {
	records map[string]leave.LeaveRecord
	nextID  int
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{records: make(map[string]leave.LeaveRecord)}
}

func (f *fakeLeaveRepo) Create(_ context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	f.nextID++
	record.ID = time.Now().Format("20060102") + "-" + string(rune('a'+f.nextID))
	record.CreatedAt = time.Now()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return leave.LeaveRecord{}, leave.ErrLeaveNotFound
	}
	return r, nil
}

func (f *fakeLeaveRepo) GetByStaffAndRange(_ context.Context, staffID string, start, end time.Time) ([]leave.LeaveRecord, error) {
	var out []leave.LeaveRecord
	for _, r := range f.records {
		if r.StaffID == staffID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) GetByClinicAndRange(_ context.Context, clinicID string, start, end time.Time, statuses []leave.LeaveStatus) ([]leave.LeaveRecord, error) {
	var out []leave.LeaveRecord
	for _, r := range f.records {
		if r.ClinicID != clinicID || r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if r.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLeaveRepo) GetOnHoldByClinic(_ context.Context, clinicID string) ([]leave.LeaveRecord, error) {
	var out []leave.LeaveRecord
	for _, r := range f.records {
		if r.ClinicID == clinicID && r.Status == leave.LeaveStatusOnHold {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ExistsForDate(_ context.Context, staffID string, date time.Time) (bool, error) {
	for _, r := range f.records {
		if r.StaffID == staffID && r.Date.Equal(date) && r.Status != leave.LeaveStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepo) UpdateStatus(_ context.Context, id string, status leave.LeaveStatus, decidedBy *string, holdReason *string) error {
	r, ok := f.records[id]
	if !ok {
		return leave.ErrLeaveNotFound
	}
	r.Status = status
	r.DecidedBy = decidedBy
	r.HoldReason = holdReason
	now := time.Now()
	r.DecidedAt = &now
	f.records[id] = r
	return nil
}

type fakeStaffRepo struct {
	members map[string]staff.StaffMember
}

func (f *fakeStaffRepo) Create(_ context.Context, m staff.StaffMember) (staff.StaffMember, error) {
	f.members[m.ID] = m
	return m, nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id, clinicID string) (staff.StaffMember, error) {
	m, ok := f.members[id]
	if !ok || m.ClinicID != clinicID {
		return staff.StaffMember{}, staff.ErrStaffNotFound
	}
	return m, nil
}

func (f *fakeStaffRepo) GetByClinicID(_ context.Context, clinicID string, _ staff.StaffFilter) ([]staff.StaffMember, int64, error) {
	var out []staff.StaffMember
	for _, m := range f.members {
		if m.ClinicID == clinicID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStaffRepo) GetActiveByClinicID(_ context.Context, clinicID string) ([]staff.StaffMember, error) {
	var out []staff.StaffMember
	for _, m := range f.members {
		if m.ClinicID == clinicID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStaffRepo) Update(_ context.Context, _ staff.UpdateStaffRequest) error { return nil }

func (f *fakeStaffRepo) Deactivate(_ context.Context, _, _ string) error { return nil }

type fakeFairnessRepo struct {
	latest map[string]roster.FairnessSnapshot
}

func (f *fakeFairnessRepo) ReplaceForPeriod(_ context.Context, _ string, _ []roster.FairnessSnapshot) error {
	return nil
}

func (f *fakeFairnessRepo) GetByPeriod(_ context.Context, _ string) ([]roster.FairnessSnapshot, error) {
	return nil, nil
}

func (f *fakeFairnessRepo) GetLatestByStaff(_ context.Context, staffID string) (roster.FairnessSnapshot, error) {
	s, ok := f.latest[staffID]
	if !ok {
		return roster.FairnessSnapshot{}, roster.ErrSnapshotNotFound
	}
	return s, nil
}

func newTestLeaveService(scores map[string]float64) (*LeaveService, *fakeLeaveRepo) {
	leaveRepo := newFakeLeaveRepo()
	staffRepo := &fakeStaffRepo{members: map[string]staff.StaffMember{
		"s1":      {ID: "s1", ClinicID: "c1", FullName: "Ani", Department: "nursing", Category: "nurse", Active: true},
		"retired": {ID: "retired", ClinicID: "c1", Department: "nursing", Category: "nurse", Active: false},
	}}
	fairness := &fakeFairnessRepo{latest: make(map[string]roster.FairnessSnapshot)}
	for id, score := range scores {
		fairness.latest[id] = roster.FairnessSnapshot{StaffID: id, Overall: score}
	}
	return NewLeaveService(leaveRepo, staffRepo, fairness), leaveRepo
}

func TestCheckGate_Thresholds(t *testing.T) {
	cases := []struct {
		name      string
		score     float64
		leaveType leave.LeaveType
		allowed   bool
	}{
		{"annual above threshold", 65, leave.LeaveAnnual, true},
		{"annual at threshold", 60, leave.LeaveAnnual, true},
		{"annual below threshold", 59.9, leave.LeaveAnnual, false},
		{"off needs a higher score", 65, leave.LeaveOff, false},
		{"off at threshold", 75, leave.LeaveOff, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, _ := newTestLeaveService(map[string]float64{"s1": c.score})
			gate, err := svc.CheckGate(context.Background(), "s1", c.leaveType)
			require.NoError(t, err)
			assert.Equal(t, c.allowed, gate.Allowed)
			assert.Equal(t, c.score, gate.Score)
		})
	}
}

func TestCheckGate_NoHistoryPasses(t *testing.T) {
	svc, _ := newTestLeaveService(nil)
	gate, err := svc.CheckGate(context.Background(), "s1", leave.LeaveOff)
	require.NoError(t, err)
	assert.True(t, gate.Allowed)
	assert.Equal(t, 100.0, gate.Score)
}

func TestApply_ConfirmedWhenGatePasses(t *testing.T) {
	svc, repo := newTestLeaveService(map[string]float64{"s1": 90})
	resp, gate, err := svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		ClinicID: "c1",
		StaffID:  "s1",
		Date:     "2025-06-03",
		Type:     "annual",
		Reason:   "family event",
	})
	require.NoError(t, err)
	assert.True(t, gate.Allowed)
	assert.Equal(t, string(leave.LeaveStatusConfirmed), resp.Status)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusConfirmed, stored.Status)
	assert.Nil(t, stored.HoldReason)
}

func TestApply_OnHoldWhenGateFails(t *testing.T) {
	svc, repo := newTestLeaveService(map[string]float64{"s1": 40})
	resp, gate, err := svc.Apply(context.Background(), leave.ApplyLeaveRequest{
		ClinicID: "c1",
		StaffID:  "s1",
		Date:     "2025-06-03",
		Type:     "off",
	})
	require.NoError(t, err)
	assert.False(t, gate.Allowed)
	assert.Equal(t, string(leave.LeaveStatusOnHold), resp.Status)
	require.NotNil(t, resp.HoldReason)
	assert.Contains(t, *resp.HoldReason, "below")

	held, err := svc.ListOnHold(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, resp.ID, held[0].ID)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusOnHold, stored.Status)
}

func TestApply_Rejections(t *testing.T) {
	svc, _ := newTestLeaveService(map[string]float64{"s1": 90})
	ctx := context.Background()

	_, _, err := svc.Apply(ctx, leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "s1", Date: "2025-06-03", Type: "sick"})
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveType)

	// Sunday is not a schedulable day.
	_, _, err = svc.Apply(ctx, leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "s1", Date: "2025-06-08", Type: "off"})
	assert.ErrorIs(t, err, leave.ErrDateOutsideSchedule)

	_, _, err = svc.Apply(ctx, leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "missing", Date: "2025-06-03", Type: "off"})
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)

	_, _, err = svc.Apply(ctx, leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "retired", Date: "2025-06-03", Type: "off"})
	assert.ErrorIs(t, err, staff.ErrStaffAlreadyRetired)
}

func TestApply_DuplicateDate(t *testing.T) {
	svc, _ := newTestLeaveService(map[string]float64{"s1": 90})
	ctx := context.Background()
	req := leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "s1", Date: "2025-06-03", Type: "annual"}

	_, _, err := svc.Apply(ctx, req)
	require.NoError(t, err)
	_, _, err = svc.Apply(ctx, req)
	assert.ErrorIs(t, err, leave.ErrDuplicateLeave)
}

func TestResolveOnHold(t *testing.T) {
	svc, _ := newTestLeaveService(map[string]float64{"s1": 40})
	ctx := context.Background()
	resp, _, err := svc.Apply(ctx, leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "s1", Date: "2025-06-03", Type: "off"})
	require.NoError(t, err)

	// Wrong clinic cannot see the record.
	_, err = svc.ResolveOnHold(ctx, leave.ResolveOnHoldRequest{ClinicID: "other", LeaveID: resp.ID, DecidedBy: "admin"})
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)

	decided, err := svc.ResolveOnHold(ctx, leave.ResolveOnHoldRequest{
		ClinicID:  "c1",
		LeaveID:   resp.ID,
		DecidedBy: "admin",
		Approve:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveStatusConfirmed), decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "admin", *decided.DecidedBy)

	// Deciding twice is rejected.
	_, err = svc.ResolveOnHold(ctx, leave.ResolveOnHoldRequest{ClinicID: "c1", LeaveID: resp.ID, DecidedBy: "admin"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyDecided)
}

func TestResolveOnHold_Reject(t *testing.T) {
	svc, repo := newTestLeaveService(map[string]float64{"s1": 40})
	ctx := context.Background()
	resp, _, err := svc.Apply(ctx, leave.ApplyLeaveRequest{ClinicID: "c1", StaffID: "s1", Date: "2025-06-03", Type: "off"})
	require.NoError(t, err)

	decided, err := svc.ResolveOnHold(ctx, leave.ResolveOnHoldRequest{
		ClinicID:  "c1",
		LeaveID:   resp.ID,
		DecidedBy: "admin",
		Approve:   false,
		Reason:    "short-staffed next week",
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveStatusCancelled), decided.Status)

	stored, err := repo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusCancelled, stored.Status)
}
