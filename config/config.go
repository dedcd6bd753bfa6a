package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Engine   EngineConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// EngineConfig holds the report engine tunables. Defaults mirror the values
// the product shipped with; every threshold is a named constant here, never a
// literal at a call site.
type EngineConfig struct {
	DuplicateRadiusMeters     float64 // DUPLICATE_RADIUS_METERS: nearby-report clustering radius
	HighPrioritySignal        int     // PRIORITY_HIGH_SIGNAL: total signal at which priority becomes High
	EscalationThresholdDays   int     // ESCALATION_THRESHOLD_DAYS: pending age before escalation
	ConfirmationPoints        int     // CONFIRMATION_POINTS: points awarded per accepted confirmation
	ContributorBadgeThreshold int     // CONTRIBUTOR_BADGE_THRESHOLD: verified reports for contributor status
	CommunityFeedLimit        int     // COMMUNITY_FEED_LIMIT: max reports in the community feed
	WorkerIntervalSeconds     int     // ESCALATION_WORKER_INTERVAL_SECONDS: sweep interval
	MaxReportsPerDay          int     // MAX_REPORTS_PER_DAY: submission rate limit per signed-in user
	ResubmitGuardMinutes      int     // RESUBMIT_GUARD_MINUTES: identical-resubmission window
}

// Engine defaults
const (
	DefaultDuplicateRadiusMeters     = 50.0
	DefaultHighPrioritySignal        = 5
	DefaultEscalationThresholdDays   = 7
	DefaultConfirmationPoints        = 5
	DefaultContributorBadgeThreshold = 5
	DefaultCommunityFeedLimit        = 50
	DefaultWorkerIntervalSeconds     = 3600
	DefaultMaxReportsPerDay          = 3
	DefaultResubmitGuardMinutes      = 30
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "roadfix"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		},
		Engine: EngineConfig{
			DuplicateRadiusMeters:     getEnvFloat("DUPLICATE_RADIUS_METERS", DefaultDuplicateRadiusMeters),
			HighPrioritySignal:        getEnvInt("PRIORITY_HIGH_SIGNAL", DefaultHighPrioritySignal),
			EscalationThresholdDays:   getEnvInt("ESCALATION_THRESHOLD_DAYS", DefaultEscalationThresholdDays),
			ConfirmationPoints:        getEnvInt("CONFIRMATION_POINTS", DefaultConfirmationPoints),
			ContributorBadgeThreshold: getEnvInt("CONTRIBUTOR_BADGE_THRESHOLD", DefaultContributorBadgeThreshold),
			CommunityFeedLimit:        getEnvInt("COMMUNITY_FEED_LIMIT", DefaultCommunityFeedLimit),
			WorkerIntervalSeconds:     getEnvInt("ESCALATION_WORKER_INTERVAL_SECONDS", DefaultWorkerIntervalSeconds),
			MaxReportsPerDay:          getEnvInt("MAX_REPORTS_PER_DAY", DefaultMaxReportsPerDay),
			ResubmitGuardMinutes:      getEnvInt("RESUBMIT_GUARD_MINUTES", DefaultResubmitGuardMinutes),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
