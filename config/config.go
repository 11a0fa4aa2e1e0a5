package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MakerSuite booking API configuration.
	MakerSuiteAPIURL string `mapstructure:"MAKERSUITE_API_URL"`
	MakerSuiteAPIKey string `mapstructure:"MAKERSUITE_API_KEY"`

	// Airmax flight search configuration.
	AirmaxAPIBaseURL     string `mapstructure:"AIRMAX_API_BASE_URL"`
	FlightSearchEndpoint string `mapstructure:"AIRMAX_FLIGHT_SEARCH_ENDPOINT"`

	// Round trip correlation storage configuration.
	RoundTripRetentionHours int `mapstructure:"ROUND_TRIP_RETENTION_HOURS"`

	// Slack notification configuration.
	SlackWebhookURL string `mapstructure:"SLACK_WEBHOOK_URL"`

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDedupDB       int    `mapstructure:"REDIS_DEDUP_DB"`
	RedisNotifyQueueDB int    `mapstructure:"REDIS_NOTIFY_QUEUE_DB"`

	// Webhook archive (MongoDB) configuration.
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	ArchiveEnabled bool   `mapstructure:"ARCHIVE_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("MAKERSUITE_API_URL", "https://api.makerssuite.com/api/Book/CreateBooking")
	viper.SetDefault("MAKERSUITE_API_KEY", "")
	viper.SetDefault("AIRMAX_API_BASE_URL", "https://api.makerssuite.com")
	viper.SetDefault("AIRMAX_FLIGHT_SEARCH_ENDPOINT", "/api/FlightSearch/GetOneWayFlightsForDateRange")
	viper.SetDefault("ROUND_TRIP_RETENTION_HOURS", 1)
	viper.SetDefault("SLACK_WEBHOOK_URL", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DEDUP_DB", 1)
	viper.SetDefault("REDIS_NOTIFY_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("ARCHIVE_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// RoundTripRetention returns the retention window for stored half-bookings.
func RoundTripRetention() time.Duration {
	hours := AppConfig.RoundTripRetentionHours
	if hours <= 0 {
		hours = 1
	}
	return time.Duration(hours) * time.Hour
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
