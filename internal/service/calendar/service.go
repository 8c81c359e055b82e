package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
)

// CalendarService manages the scheduling inputs an operator maintains by
// hand: holidays, provider rosters and the requirement configuration.
type CalendarService struct {
	holidays     calendar.HolidayRepository
	rosters      calendar.ProviderRosterRepository
	combinations calendar.CombinationRepository
	ratios       calendar.RatioRepository
	dimensions   calendar.DimensionRepository
}

func NewCalendarService(
	holidays calendar.HolidayRepository,
	rosters calendar.ProviderRosterRepository,
	combinations calendar.CombinationRepository,
	ratios calendar.RatioRepository,
	dimensions calendar.DimensionRepository,
) *CalendarService {
	return &CalendarService{
		holidays:     holidays,
		rosters:      rosters,
		combinations: combinations,
		ratios:       ratios,
		dimensions:   dimensions,
	}
}

func (s *CalendarService) AddHoliday(ctx context.Context, clinicID, dateStr, name string) (calendar.Holiday, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return calendar.Holiday{}, fmt.Errorf("invalid date: %w", err)
	}
	return s.holidays.Create(ctx, calendar.Holiday{ClinicID: clinicID, Date: date, Name: name})
}

func (s *CalendarService) ListHolidays(ctx context.Context, clinicID string, start, end time.Time) ([]calendar.Holiday, error) {
	return s.holidays.GetByClinicAndRange(ctx, clinicID, start, end)
}

func (s *CalendarService) DeleteHoliday(ctx context.Context, id, clinicID string) error {
	return s.holidays.Delete(ctx, id, clinicID)
}

func (s *CalendarService) UpsertRoster(ctx context.Context, roster calendar.ProviderRoster) (calendar.ProviderRoster, error) {
	sort.Strings(roster.ProviderIDs)
	return s.rosters.Upsert(ctx, roster)
}

func (s *CalendarService) ListRosters(ctx context.Context, clinicID string, start, end time.Time) ([]calendar.ProviderRoster, error) {
	return s.rosters.GetByClinicAndRange(ctx, clinicID, start, end)
}

func (s *CalendarService) CreateCombination(ctx context.Context, combo calendar.RequirementCombination) (calendar.RequirementCombination, error) {
	sort.Strings(combo.ProviderIDs)
	for _, cat := range combo.Categories {
		if cat.MinRequired > cat.Count {
			return calendar.RequirementCombination{}, fmt.Errorf("category %s/%s: min_required %d exceeds count %d", cat.Department, cat.Category, cat.MinRequired, cat.Count)
		}
	}
	return s.combinations.Create(ctx, combo)
}

func (s *CalendarService) ListCombinations(ctx context.Context, clinicID string) ([]calendar.RequirementCombination, error) {
	return s.combinations.GetByClinicID(ctx, clinicID)
}

func (s *CalendarService) DeleteCombination(ctx context.Context, id, clinicID string) error {
	return s.combinations.Delete(ctx, id, clinicID)
}

// ReplaceRatios swaps the clinic's proportional derivation table. Shares must
// sum to 100 so the derived headcounts always add back up to the day's total.
func (s *CalendarService) ReplaceRatios(ctx context.Context, clinicID string, ratios []calendar.RatioConfig) error {
	if len(ratios) == 0 {
		return calendar.ErrNoRatioConfig
	}
	sum := 0
	for _, r := range ratios {
		sum += r.Percent
	}
	if sum != 100 {
		return fmt.Errorf("ratio percents sum to %d, want 100", sum)
	}
	return s.ratios.Replace(ctx, clinicID, ratios)
}

func (s *CalendarService) ListRatios(ctx context.Context, clinicID string) ([]calendar.RatioConfig, error) {
	return s.ratios.GetByClinicID(ctx, clinicID)
}

// SetDimension toggles a fairness dimension. The total dimension is the
// anchor of the whole scoring model and cannot be turned off.
func (s *CalendarService) SetDimension(ctx context.Context, cfg calendar.DimensionConfig) error {
	if cfg.Dimension == "total" && !cfg.Enabled {
		return fmt.Errorf("the total dimension cannot be disabled")
	}
	return s.dimensions.Upsert(ctx, cfg)
}

func (s *CalendarService) ListDimensions(ctx context.Context, clinicID string) ([]calendar.DimensionConfig, error) {
	return s.dimensions.GetByClinicID(ctx, clinicID)
}
