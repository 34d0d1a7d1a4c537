package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/clockwise-hr/timeclock-backend-go/internal/service/geofence"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
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

// AttendanceConfig holds the office geofence regions, in declaration order.
type AttendanceConfig struct {
	Geofences []geofence.Region
}

// LeaveConfig holds leave accounting defaults.
type LeaveConfig struct {
	DefaultAccrualDays float64
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	geofences, err := parseGeofences(getEnv("OFFICE_GEOFENCES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_GEOFENCES: %w", err)
	}
	config.Attendance = AttendanceConfig{Geofences: geofences}

	// Leave configuration
	accrual, err := strconv.ParseFloat(getEnv("LEAVE_DEFAULT_ACCRUAL_DAYS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DEFAULT_ACCRUAL_DAYS: %w", err)
	}
	config.Leave = LeaveConfig{DefaultAccrualDays: accrual}

	// Validate required fields
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

// parseGeofences parses "name:lat:lon:radius;name:lat:lon:radius". Region
// order is preserved; the attendance engine tags a clock-in with the first
// containing region.
func parseGeofences(value string) ([]geofence.Region, error) {
	if value == "" {
		return nil, nil
	}

	var regions []geofence.Region
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, ":")
		if len(fields) != 4 {
			return nil, fmt.Errorf("expected name:lat:lon:radius, got %q", part)
		}

		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", part, err)
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", part, err)
		}
		radius, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid radius in %q: %w", part, err)
		}

		regions = append(regions, geofence.Region{
			Name:         fields[0],
			Latitude:     lat,
			Longitude:    lon,
			RadiusMeters: radius,
		})
	}

	return regions, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
