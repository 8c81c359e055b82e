package roster

import (
	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/domain/staff"
)

// BaselineMode selects where the fairness baseline comes from.
type BaselineMode string

const (
	// BaselineRealized uses the department cohort's own realized average,
	// recomputed as assignments change within the run. Primary mode.
	BaselineRealized BaselineMode = "realized"
	// BaselineSnapshot pins the baseline to the prior period's department
	// mean and seeds each member's actuals with their own prior counts, so
	// accumulated history keeps ranking against the fixed reference.
	BaselineSnapshot BaselineMode = "snapshot"
)

// FairnessEngine tracks per-staff workload actuals across the five fairness
// dimensions and scores each member against their department cohort. The
// engine is mutated continuously during a run so rankings self-correct as
// assignments accumulate.
type FairnessEngine struct {
	mode    BaselineMode
	enabled map[roster.Dimension]bool

	deptOf     map[string]string
	deptMates  map[string][]string // department -> active staff ids
	actuals    map[string]map[roster.Dimension]float64
	priorMeans map[string]map[roster.Dimension]float64 // department -> dim -> snapshot baseline
}

func NewFairnessEngine(
	members []staff.StaffMember,
	dimConfigs []calendar.DimensionConfig,
	mode BaselineMode,
	priorActuals map[string]map[roster.Dimension]float64,
) *FairnessEngine {
	enabled := make(map[roster.Dimension]bool, len(roster.AllDimensions))
	for _, d := range roster.AllDimensions {
		enabled[d] = true
	}
	for _, cfg := range dimConfigs {
		enabled[roster.Dimension(cfg.Dimension)] = cfg.Enabled
	}
	// Total can never be disabled, it anchors quota reconciliation.
	enabled[roster.DimTotal] = true

	e := &FairnessEngine{
		mode:      mode,
		enabled:   enabled,
		deptOf:    make(map[string]string, len(members)),
		deptMates: make(map[string][]string),
		actuals:   make(map[string]map[roster.Dimension]float64, len(members)),
	}
	for _, m := range members {
		if !m.Active {
			continue
		}
		e.deptOf[m.ID] = m.Department
		e.deptMates[m.Department] = append(e.deptMates[m.Department], m.ID)
		acts := make(map[roster.Dimension]float64, len(roster.AllDimensions))
		// Snapshot mode starts every member at their own prior counts. The
		// baseline is pinned, so a heavy prior history must stay visible in
		// the member's deviation or rankings would forget it.
		if mode == BaselineSnapshot {
			for d, v := range priorActuals[m.ID] {
				acts[d] = v
			}
		}
		e.actuals[m.ID] = acts
	}
	if mode == BaselineSnapshot {
		e.priorMeans = deptMeans(e.deptMates, priorActuals)
	}
	return e
}

func deptMeans(mates map[string][]string, actuals map[string]map[roster.Dimension]float64) map[string]map[roster.Dimension]float64 {
	out := make(map[string]map[roster.Dimension]float64, len(mates))
	for dept, ids := range mates {
		dims := make(map[roster.Dimension]float64)
		for _, id := range ids {
			for d, v := range actuals[id] {
				dims[d] += v
			}
		}
		for d := range dims {
			dims[d] /= float64(len(ids))
		}
		out[dept] = dims
	}
	return out
}

func (e *FairnessEngine) Enabled(d roster.Dimension) bool {
	return e.enabled[d]
}

// Record adds delta worked units to every listed dimension for a staff
// member. Pass a negative delta to undo an assignment.
func (e *FairnessEngine) Record(staffID string, dims []roster.Dimension, delta float64) {
	acts, ok := e.actuals[staffID]
	if !ok {
		return
	}
	for _, d := range dims {
		acts[d] += delta
	}
}

// RecordLeave accrues an annual-leave day: it counts toward total only,
// never toward the special dimensions.
func (e *FairnessEngine) RecordLeave(staffID string) {
	e.Record(staffID, []roster.Dimension{roster.DimTotal}, 1)
}

func (e *FairnessEngine) Actual(staffID string, d roster.Dimension) float64 {
	return e.actuals[staffID][d]
}

// Baseline is the cohort reference the member is measured against: the
// department's realized average in the primary mode, or the pinned prior
// period average in snapshot mode.
func (e *FairnessEngine) Baseline(staffID string, d roster.Dimension) float64 {
	dept := e.deptOf[staffID]
	if e.mode == BaselineSnapshot {
		return e.priorMeans[dept][d]
	}
	mates := e.deptMates[dept]
	if len(mates) == 0 {
		return 0
	}
	var sum float64
	for _, id := range mates {
		sum += e.actuals[id][d]
	}
	return sum / float64(len(mates))
}

// Deviation is baseline minus actual. Positive means under-worked relative
// to peers and should be prioritized for the next slot.
func (e *FairnessEngine) Deviation(staffID string, d roster.Dimension) float64 {
	return e.Baseline(staffID, d) - e.Actual(staffID, d)
}

// AdjustedDeviations applies the cohort batch adjustment over a candidate
// pool: the pool's own mean deviation is subtracted from every member so a
// system-wide bias (total demand exceeding supply) cannot mask relative
// unfairness.
func (e *FairnessEngine) AdjustedDeviations(pool []string, d roster.Dimension) map[string]float64 {
	out := make(map[string]float64, len(pool))
	if len(pool) == 0 {
		return out
	}
	var mean float64
	for _, id := range pool {
		dev := e.Deviation(id, d)
		out[id] = dev
		mean += dev
	}
	mean /= float64(len(pool))
	for id := range out {
		out[id] -= mean
	}
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Scores computes the per-dimension fairness scores for a staff member,
// restricted to enabled dimensions.
func (e *FairnessEngine) Scores(staffID string) []roster.FairnessDimensionScore {
	out := make([]roster.FairnessDimensionScore, 0, len(roster.AllDimensions))
	for _, d := range roster.AllDimensions {
		if !e.enabled[d] {
			continue
		}
		baseline := e.Baseline(staffID, d)
		actual := e.Actual(staffID, d)
		dev := baseline - actual
		out = append(out, roster.FairnessDimensionScore{
			Dimension: d,
			Baseline:  baseline,
			Actual:    actual,
			Deviation: dev,
			Score:     clampScore(100 - 10*abs(dev)),
		})
	}
	return out
}

// Overall is the weighted-mean-deviation score over enabled dimensions.
func (e *FairnessEngine) Overall(staffID string) float64 {
	var weighted, weightSum float64
	for _, d := range roster.AllDimensions {
		if !e.enabled[d] {
			continue
		}
		w := roster.DimensionWeights[d]
		weighted += w * e.Deviation(staffID, d)
		weightSum += w
	}
	if weightSum == 0 {
		return 100
	}
	return clampScore(100 - 10*abs(weighted/weightSum))
}

// StaffIDs returns every active staff id the engine tracks.
func (e *FairnessEngine) StaffIDs() []string {
	out := make([]string, 0, len(e.actuals))
	for id := range e.actuals {
		out = append(out, id)
	}
	return out
}
