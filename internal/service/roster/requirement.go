package roster

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
)

// RequirementCalculator derives per-date headcount targets from the provider
// roster, the requirement combination table and the category ratio config.
type RequirementCalculator struct {
	classifier *DayClassifier
	combos     map[string]calendar.RequirementCombination
	ratios     []calendar.RatioConfig
}

func NewRequirementCalculator(
	classifier *DayClassifier,
	combos []calendar.RequirementCombination,
	ratios []calendar.RatioConfig,
) *RequirementCalculator {
	byKey := make(map[string]calendar.RequirementCombination, len(combos))
	for _, c := range combos {
		byKey[c.Key()] = c
	}
	sorted := make([]calendar.RatioConfig, len(ratios))
	copy(sorted, ratios)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return &RequirementCalculator{
		classifier: classifier,
		combos:     byKey,
		ratios:     sorted,
	}
}

// Build produces a DayRequirement for every roster date. Requirements are
// rebuilt fresh on every run. Dates whose provider set has no combination
// match get a zero requirement and a warning, never an error.
func (rc *RequirementCalculator) Build(
	rosters []calendar.ProviderRoster,
	leaves []leave.LeaveRecord,
) map[string]*roster.DayRequirement {
	excluded := make(map[string]map[string]struct{})
	for _, l := range leaves {
		if !l.Blocks() {
			continue
		}
		k := dateKey(midnight(l.Date))
		if excluded[k] == nil {
			excluded[k] = make(map[string]struct{})
		}
		excluded[k][l.StaffID] = struct{}{}
	}

	out := make(map[string]*roster.DayRequirement, len(rosters))
	for _, pr := range rosters {
		date := midnight(pr.Date)
		req := rc.buildDay(date, pr)
		if ex := excluded[dateKey(date)]; ex != nil {
			req.ExcludedStaffIDs = ex
		} else {
			req.ExcludedStaffIDs = make(map[string]struct{})
		}
		out[dateKey(date)] = req
	}
	return out
}

func (rc *RequirementCalculator) buildDay(date time.Time, pr calendar.ProviderRoster) *roster.DayRequirement {
	req := &roster.DayRequirement{
		Date:               date,
		Tag:                rc.classifier.Classify(date, pr.HasNightSession),
		HasNightSession:    pr.HasNightSession,
		DepartmentRequired: make(map[string]int),
	}

	combo, ok := rc.combos[calendar.CombinationKey(pr.ProviderIDs, pr.HasNightSession)]
	if !ok {
		slog.Warn("no requirement combination for provider set, using zero requirement",
			"date", dateKey(date),
			"providers", pr.ProviderIDs,
			"night", pr.HasNightSession,
		)
		return req
	}

	req.TotalRequired = combo.TotalRequired
	for dept, n := range combo.DepartmentRequired {
		req.DepartmentRequired[dept] = n
	}

	if len(combo.Categories) > 0 {
		req.Categories = explicitCategories(combo.Categories)
		return req
	}

	req.Categories = rc.proportionalCategories(combo.TotalRequired)
	if len(req.Categories) == 0 {
		slog.Warn("no category ratio config, day carries only a total requirement",
			"date", dateKey(date),
		)
	}
	for _, cat := range req.Categories {
		req.DepartmentRequired[cat.Department] += cat.Count
	}
	return req
}

// explicitCategories copies configured targets verbatim, keeping the
// must-fill MinRequired subset distinct from the soft Count target. The
// flexible fallback is unconditional: a native shortfall always draws from
// the pre-authorized pool, MinRequired only raises the severity floor.
func explicitCategories(targets []calendar.CategoryTarget) []roster.CategoryRequirement {
	out := make([]roster.CategoryRequirement, 0, len(targets))
	for _, t := range targets {
		out = append(out, roster.CategoryRequirement{
			Department:  t.Department,
			Category:    t.Category,
			Count:       t.Count,
			MinRequired: t.MinRequired,
			Strategy:    roster.FillNativeThenFlexible,
		})
	}
	return out
}

// proportionalCategories splits total across categories by their configured
// percentage. The last category in sort order absorbs the rounding remainder
// so the counts always sum to total exactly.
func (rc *RequirementCalculator) proportionalCategories(total int) []roster.CategoryRequirement {
	if total == 0 || len(rc.ratios) == 0 {
		return nil
	}
	out := make([]roster.CategoryRequirement, 0, len(rc.ratios))
	assigned := 0
	for i, ratio := range rc.ratios {
		count := int(math.Round(float64(total) * float64(ratio.Percent) / 100.0))
		if i == len(rc.ratios)-1 {
			count = total - assigned
			if count < 0 {
				count = 0
			}
		}
		assigned += count
		out = append(out, roster.CategoryRequirement{
			Department: ratio.Department,
			Category:   ratio.Category,
			Count:      count,
			Strategy:   roster.FillNativeThenFlexible,
		})
	}
	return out
}
