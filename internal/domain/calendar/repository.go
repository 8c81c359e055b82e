package calendar

import (
	"context"
	"time"
)

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByClinicAndRange(ctx context.Context, clinicID string, start, end time.Time) ([]Holiday, error)
	Delete(ctx context.Context, id string, clinicID string) error
}

// ProviderRosterRepository - interface for provider_rosters table
type ProviderRosterRepository interface {
	Upsert(ctx context.Context, roster ProviderRoster) (ProviderRoster, error)
	GetByClinicAndRange(ctx context.Context, clinicID string, start, end time.Time) ([]ProviderRoster, error)
}

// CombinationRepository - interface for requirement_combinations table
type CombinationRepository interface {
	Create(ctx context.Context, combo RequirementCombination) (RequirementCombination, error)
	GetByClinicID(ctx context.Context, clinicID string) ([]RequirementCombination, error)
	Delete(ctx context.Context, id string, clinicID string) error
}

// RatioRepository - interface for category_ratios table
type RatioRepository interface {
	Replace(ctx context.Context, clinicID string, ratios []RatioConfig) error
	GetByClinicID(ctx context.Context, clinicID string) ([]RatioConfig, error)
}

// DimensionRepository - interface for fairness_dimension_configs table
type DimensionRepository interface {
	Upsert(ctx context.Context, cfg DimensionConfig) error
	GetByClinicID(ctx context.Context, clinicID string) ([]DimensionConfig, error)
}
