package calendar

import (
	"sort"
	"strings"
	"time"
)

type Holiday struct {
	ID       string
	ClinicID string
	Date     time.Time
	Name     string
}

// ProviderRoster records which providers (doctors) see patients on a date and
// whether the clinic runs a night session that day. Staffing requirements are
// derived from it.
type ProviderRoster struct {
	ID              string
	ClinicID        string
	Date            time.Time
	ProviderIDs     []string
	HasNightSession bool
}

// RequirementCombination maps a sorted provider set plus the night flag to
// explicit headcount targets.
type RequirementCombination struct {
	ID                 string
	ClinicID           string
	ProviderIDs        []string // stored sorted
	HasNightSession    bool
	TotalRequired      int
	DepartmentRequired map[string]int
	Categories         []CategoryTarget
}

// CategoryTarget is an explicit per-category headcount. MinRequired is the
// must-fill subset of Count; Count-MinRequired is a soft target.
type CategoryTarget struct {
	Department  string
	Category    string
	Count       int
	MinRequired int
}

// Key returns the lookup key for a provider set + night flag. Provider order
// is normalized so equal sets always match.
func CombinationKey(providerIDs []string, night bool) string {
	ids := make([]string, len(providerIDs))
	copy(ids, providerIDs)
	sort.Strings(ids)
	key := strings.Join(ids, ",")
	if night {
		return key + "|night"
	}
	return key + "|day"
}

func (c RequirementCombination) Key() string {
	return CombinationKey(c.ProviderIDs, c.HasNightSession)
}

// RatioConfig drives proportional category derivation when no explicit
// combination row matches a day's category needs.
type RatioConfig struct {
	ID         string
	ClinicID   string
	Department string
	Category   string
	Percent    int // share of the day's total, 0-100
	SortOrder  int // last category in order absorbs the rounding remainder
}

// DimensionConfig enables or disables a fairness dimension per clinic.
type DimensionConfig struct {
	ClinicID  string
	Dimension string
	Enabled   bool
}
