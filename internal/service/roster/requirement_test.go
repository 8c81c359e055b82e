package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/domain/roster"
)

func TestRequirementBuild_ExplicitCategories(t *testing.T) {
	classifier := NewDayClassifier(nil)
	combos := []calendar.RequirementCombination{
		{
			ProviderIDs:     []string{"dr-a", "dr-b"},
			HasNightSession: false,
			TotalRequired:   5,
			Categories: []calendar.CategoryTarget{
				{Department: "nursing", Category: "nurse", Count: 3, MinRequired: 2},
				{Department: "admin", Category: "reception", Count: 2},
			},
		},
	}
	calc := NewRequirementCalculator(classifier, combos, nil)

	days := calc.Build([]calendar.ProviderRoster{
		// Provider order must not matter for the combination match.
		{Date: date(2025, time.June, 10), ProviderIDs: []string{"dr-b", "dr-a"}},
	}, nil)

	req := days["2025-06-10"]
	require.NotNil(t, req)
	assert.Equal(t, 5, req.TotalRequired)
	require.Len(t, req.Categories, 2)

	assert.Equal(t, roster.CategoryRequirement{
		Department:  "nursing",
		Category:    "nurse",
		Count:       3,
		MinRequired: 2,
		Strategy:    roster.FillNativeThenFlexible,
	}, req.Categories[0])
	// The flexible fallback stays available even without a must-fill
	// minimum; MinRequired only drives shortage severity.
	assert.Equal(t, roster.FillNativeThenFlexible, req.Categories[1].Strategy)
	assert.Zero(t, req.Categories[1].MinRequired)
}

func TestRequirementBuild_ProportionalSplit(t *testing.T) {
	classifier := NewDayClassifier(nil)
	combos := []calendar.RequirementCombination{
		{ProviderIDs: []string{"dr-a"}, TotalRequired: 7},
	}
	ratios := []calendar.RatioConfig{
		{Department: "nursing", Category: "nurse", Percent: 60, SortOrder: 1},
		{Department: "admin", Category: "reception", Percent: 40, SortOrder: 2},
	}
	calc := NewRequirementCalculator(classifier, combos, ratios)

	days := calc.Build([]calendar.ProviderRoster{
		{Date: date(2025, time.June, 10), ProviderIDs: []string{"dr-a"}},
	}, nil)

	req := days["2025-06-10"]
	require.NotNil(t, req)
	require.Len(t, req.Categories, 2)
	// 60% of 7 rounds to 4; the last category absorbs the remainder so the
	// counts sum to the total exactly.
	assert.Equal(t, 4, req.Categories[0].Count)
	assert.Equal(t, 3, req.Categories[1].Count)
	assert.Equal(t, 4, req.DepartmentRequired["nursing"])
	assert.Equal(t, 3, req.DepartmentRequired["admin"])
}

func TestRequirementBuild_UnknownComboIsZeroRequirement(t *testing.T) {
	classifier := NewDayClassifier(nil)
	calc := NewRequirementCalculator(classifier, nil, nil)

	days := calc.Build([]calendar.ProviderRoster{
		{Date: date(2025, time.June, 10), ProviderIDs: []string{"dr-unknown"}},
	}, nil)

	req := days["2025-06-10"]
	require.NotNil(t, req)
	assert.Zero(t, req.TotalRequired)
	assert.Empty(t, req.Categories)
}

func TestRequirementBuild_NightFlagDistinguishesCombos(t *testing.T) {
	classifier := NewDayClassifier(nil)
	combos := []calendar.RequirementCombination{
		{ProviderIDs: []string{"dr-a"}, HasNightSession: false, TotalRequired: 3},
		{ProviderIDs: []string{"dr-a"}, HasNightSession: true, TotalRequired: 5},
	}
	calc := NewRequirementCalculator(classifier, combos, nil)

	days := calc.Build([]calendar.ProviderRoster{
		{Date: date(2025, time.June, 10), ProviderIDs: []string{"dr-a"}, HasNightSession: true},
		{Date: date(2025, time.June, 11), ProviderIDs: []string{"dr-a"}, HasNightSession: false},
	}, nil)

	assert.Equal(t, 5, days["2025-06-10"].TotalRequired)
	assert.Equal(t, 3, days["2025-06-11"].TotalRequired)
	assert.Equal(t, roster.DayNight, days["2025-06-10"].Tag)
}

func TestRequirementBuild_ConfirmedLeaveExcludesStaff(t *testing.T) {
	classifier := NewDayClassifier(nil)
	combos := []calendar.RequirementCombination{
		{ProviderIDs: []string{"dr-a"}, TotalRequired: 2},
	}
	calc := NewRequirementCalculator(classifier, combos, nil)

	leaves := []leave.LeaveRecord{
		{StaffID: "s1", Date: date(2025, time.June, 10), Type: leave.LeaveOff, Status: leave.LeaveStatusConfirmed},
		{StaffID: "s2", Date: date(2025, time.June, 10), Type: leave.LeaveAnnual, Status: leave.LeaveStatusOnHold},
		{StaffID: "s3", Date: date(2025, time.June, 11), Type: leave.LeaveOff, Status: leave.LeaveStatusConfirmed},
	}
	days := calc.Build([]calendar.ProviderRoster{
		{Date: date(2025, time.June, 10), ProviderIDs: []string{"dr-a"}},
		{Date: date(2025, time.June, 11), ProviderIDs: []string{"dr-a"}},
	}, leaves)

	// Only confirmed leave blocks; held applications do not.
	assert.Contains(t, days["2025-06-10"].ExcludedStaffIDs, "s1")
	assert.NotContains(t, days["2025-06-10"].ExcludedStaffIDs, "s2")
	assert.Contains(t, days["2025-06-11"].ExcludedStaffIDs, "s3")
}

func TestCombinationKey_NormalizesOrder(t *testing.T) {
	assert.Equal(t,
		calendar.CombinationKey([]string{"dr-b", "dr-a"}, false),
		calendar.CombinationKey([]string{"dr-a", "dr-b"}, false),
	)
	assert.NotEqual(t,
		calendar.CombinationKey([]string{"dr-a"}, true),
		calendar.CombinationKey([]string{"dr-a"}, false),
	)
}
