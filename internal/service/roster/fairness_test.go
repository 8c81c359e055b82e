package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

func testCohort() []staff.StaffMember {
	return []staff.StaffMember{
		{ID: "s1", Department: "nursing", Category: "nurse", Active: true},
		{ID: "s2", Department: "nursing", Category: "nurse", Active: true},
		{ID: "s3", Department: "nursing", Category: "nurse", Active: true},
		{ID: "s4", Department: "admin", Category: "reception", Active: true},
		{ID: "retired", Department: "nursing", Category: "nurse", Active: false},
	}
}

func TestFairnessEngine_RealizedBaseline(t *testing.T) {
	e := NewFairnessEngine(testCohort(), nil, BaselineRealized, nil)

	e.Record("s1", []roster.Dimension{roster.DimTotal}, 3)
	e.Record("s2", []roster.Dimension{roster.DimTotal}, 1)
	// s3 has worked nothing; cohort mean is (3+1+0)/3.
	baseline := e.Baseline("s3", roster.DimTotal)
	assert.InDelta(t, 4.0/3.0, baseline, 1e-9)

	// Deviation is baseline minus actual: the idle member is most under-worked.
	assert.InDelta(t, 4.0/3.0, e.Deviation("s3", roster.DimTotal), 1e-9)
	assert.InDelta(t, -(3 - 4.0/3.0), e.Deviation("s1", roster.DimTotal), 1e-9)

	// Baselines never cross department lines.
	assert.Zero(t, e.Baseline("s4", roster.DimTotal))
}

func TestFairnessEngine_InactiveStaffIgnored(t *testing.T) {
	e := NewFairnessEngine(testCohort(), nil, BaselineRealized, nil)
	e.Record("retired", []roster.Dimension{roster.DimTotal}, 10)
	assert.Zero(t, e.Actual("retired", roster.DimTotal))
	assert.Zero(t, e.Baseline("s1", roster.DimTotal))
	assert.NotContains(t, e.StaffIDs(), "retired")
}

func TestFairnessEngine_RecordUndo(t *testing.T) {
	e := NewFairnessEngine(testCohort(), nil, BaselineRealized, nil)
	dims := []roster.Dimension{roster.DimTotal, roster.DimNight}
	e.Record("s1", dims, 1)
	e.Record("s1", dims, -1)
	assert.Zero(t, e.Actual("s1", roster.DimTotal))
	assert.Zero(t, e.Actual("s1", roster.DimNight))
}

func TestFairnessEngine_LeaveAccruesTotalOnly(t *testing.T) {
	e := NewFairnessEngine(testCohort(), nil, BaselineRealized, nil)
	e.RecordLeave("s1")
	assert.Equal(t, 1.0, e.Actual("s1", roster.DimTotal))
	assert.Zero(t, e.Actual("s1", roster.DimNight))
	assert.Zero(t, e.Actual("s1", roster.DimWeekend))
}

func TestFairnessEngine_SnapshotBaseline(t *testing.T) {
	prior := map[string]map[roster.Dimension]float64{
		"s1": {roster.DimTotal: 20},
		"s2": {roster.DimTotal: 10},
		"s3": {roster.DimTotal: 12},
	}
	e := NewFairnessEngine(testCohort(), nil, BaselineSnapshot, prior)

	// The pinned baseline is the prior department mean and does not move as
	// new assignments accrue.
	want := (20.0 + 10.0 + 12.0) / 3.0
	assert.InDelta(t, want, e.Baseline("s1", roster.DimTotal), 1e-9)

	// Each member starts from their own prior counts, so the heavy-history
	// member is already over the pinned mean before the run assigns anything.
	assert.InDelta(t, want-20, e.Deviation("s1", roster.DimTotal), 1e-9)
	assert.InDelta(t, want-10, e.Deviation("s2", roster.DimTotal), 1e-9)

	e.Record("s1", []roster.Dimension{roster.DimTotal}, 5)
	assert.InDelta(t, want, e.Baseline("s1", roster.DimTotal), 1e-9)
	assert.InDelta(t, want-25, e.Deviation("s1", roster.DimTotal), 1e-9)
}

func TestFairnessEngine_SnapshotPriorHistoryRanks(t *testing.T) {
	prior := map[string]map[roster.Dimension]float64{
		"s1": {roster.DimNight: 2},
		"s2": {roster.DimNight: 0},
		"s3": {roster.DimNight: 1},
	}
	e := NewFairnessEngine(testCohort(), nil, BaselineSnapshot, prior)

	// The pinned cohort mean cancels out of the batch adjustment, but the
	// per-staff prior counts must not: the night-light member has to outrank
	// the night-heavy one.
	adj := e.AdjustedDeviations([]string{"s1", "s2", "s3"}, roster.DimNight)
	assert.Greater(t, adj["s2"], adj["s3"])
	assert.Greater(t, adj["s3"], adj["s1"])

	// Swapping the history swaps the ranking.
	swapped := map[string]map[roster.Dimension]float64{
		"s1": {roster.DimNight: 0},
		"s2": {roster.DimNight: 2},
		"s3": {roster.DimNight: 1},
	}
	e = NewFairnessEngine(testCohort(), nil, BaselineSnapshot, swapped)
	adj = e.AdjustedDeviations([]string{"s1", "s2", "s3"}, roster.DimNight)
	assert.Greater(t, adj["s1"], adj["s3"])
	assert.Greater(t, adj["s3"], adj["s2"])
}

func TestFairnessEngine_DisabledDimension(t *testing.T) {
	configs := []calendar.DimensionConfig{
		{Dimension: "night", Enabled: false},
		{Dimension: "total", Enabled: false}, // ignored
	}
	e := NewFairnessEngine(testCohort(), configs, BaselineRealized, nil)

	assert.False(t, e.Enabled(roster.DimNight))
	// Total stays enabled no matter what the config says.
	assert.True(t, e.Enabled(roster.DimTotal))

	for _, s := range e.Scores("s1") {
		assert.NotEqual(t, roster.DimNight, s.Dimension)
	}
}

func TestFairnessEngine_AdjustedDeviations(t *testing.T) {
	e := NewFairnessEngine(testCohort(), nil, BaselineRealized, nil)
	e.Record("s1", []roster.Dimension{roster.DimTotal}, 2)

	adj := e.AdjustedDeviations([]string{"s1", "s2", "s3"}, roster.DimTotal)
	// After batch adjustment the pool's deviations sum to zero, so any
	// system-wide bias cancels and only relative differences remain.
	var sum float64
	for _, v := range adj {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
	assert.Less(t, adj["s1"], adj["s2"])
	assert.Equal(t, adj["s2"], adj["s3"])
}

func TestFairnessEngine_Scores(t *testing.T) {
	e := NewFairnessEngine(testCohort(), nil, BaselineRealized, nil)

	// A perfectly balanced member scores 100 everywhere.
	for _, s := range e.Scores("s1") {
		assert.Equal(t, 100.0, s.Score)
	}
	assert.Equal(t, 100.0, e.Overall("s1"))

	// Push s1 three total-days over the cohort and the score drops by 10 per
	// unit of absolute deviation, clamped at zero.
	e.Record("s1", []roster.Dimension{roster.DimTotal}, 3)
	dev := e.Deviation("s1", roster.DimTotal)
	for _, s := range e.Scores("s1") {
		if s.Dimension == roster.DimTotal {
			assert.InDelta(t, 100-10*(-dev), s.Score, 1e-9)
		}
	}
	assert.Less(t, e.Overall("s1"), 100.0)
	assert.GreaterOrEqual(t, e.Overall("s1"), 0.0)
}
