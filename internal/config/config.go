package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Scheduling SchedulingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// SchedulingConfig tunes the generation engine.
type SchedulingConfig struct {
	// BaselineMode is "realized" or "snapshot".
	BaselineMode string
	// BusinessDaysPerWeek counts schedulable days per calendar week.
	BusinessDaysPerWeek int
	// AutoGenerateIntervalMinutes is how often the cron sweep looks for due
	// auto-generate periods.
	AutoGenerateIntervalMinutes int
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments; the variables
	// come from the process environment there.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "medirota"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	businessDays, err := strconv.Atoi(getEnv("BUSINESS_DAYS_PER_WEEK", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_DAYS_PER_WEEK: %w", err)
	}
	sweepMinutes, err := strconv.Atoi(getEnv("AUTO_GENERATE_SWEEP_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_GENERATE_SWEEP_MINUTES: %w", err)
	}

	config.Scheduling = SchedulingConfig{
		BaselineMode:                getEnv("FAIRNESS_BASELINE_MODE", "realized"),
		BusinessDaysPerWeek:         businessDays,
		AutoGenerateIntervalMinutes: sweepMinutes,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Scheduling.BaselineMode != "realized" && c.Scheduling.BaselineMode != "snapshot" {
		return fmt.Errorf("FAIRNESS_BASELINE_MODE must be 'realized' or 'snapshot'")
	}
	if c.Scheduling.BusinessDaysPerWeek < 1 || c.Scheduling.BusinessDaysPerWeek > 7 {
		return fmt.Errorf("BUSINESS_DAYS_PER_WEEK must be between 1 and 7")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
