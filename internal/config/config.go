package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the running environment of the application
type Environment string

// Config holds all configuration for the application
type Config struct {
	// Environment is the current running environment (development, production, test)
	Environment Environment

	// Slack configuration
	SlackBotToken       string // Required: Slack bot user OAuth token
	SlackSigningSecret  string // Required: shared secret used to verify webhook signatures
	SlackDefaultChannel string // Channel used when a handler does not name one
	SlackAdminID        string // Optional: admin user ID treated as the bot's own identity

	// ReplayWindow is the maximum accepted skew between the request
	// timestamp header and server time.
	ReplayWindow time.Duration

	// S3 configuration for payload archiving. Empty bucket disables archiving.
	ArchiveBucketName string

	// Kafka configuration for the notification publisher. Empty brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// Log level
	LogLevel string // Required: Log level
}

var (
	// instance holds the singleton config instance
	instance *Config
)

// Get returns the singleton config instance
func Get() *Config {
	if instance == nil {
		panic("config not initialized")
	}
	return instance
}

// Load creates a new Config instance from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Load required values
	requiredVars := map[string]*string{
		"SLACK_BOT_TOKEN":      &cfg.SlackBotToken,
		"SLACK_SIGNING_SECRET": &cfg.SlackSigningSecret,

		"LOG_LEVEL": &cfg.LogLevel,
	}

	var missingVars []string
	for env, ptr := range requiredVars {
		*ptr = os.Getenv(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	cfg.Environment = Environment(getEnvDefault("ENVIRONMENT", "production"))
	cfg.SlackDefaultChannel = getEnvDefault("SLACK_DEFAULT_CHANNEL", "general")
	cfg.SlackAdminID = os.Getenv("SLACK_ADMIN_ID")
	cfg.ArchiveBucketName = os.Getenv("ARCHIVE_BUCKET_NAME")
	cfg.KafkaTopic = os.Getenv("KAFKA_TOPIC")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	seconds := getEnvDefault("REPLAY_WINDOW_SECONDS", "300")
	parsed, err := strconv.Atoi(seconds)
	if err != nil || parsed <= 0 {
		return nil, fmt.Errorf("invalid REPLAY_WINDOW_SECONDS: %s", seconds)
	}
	cfg.ReplayWindow = time.Duration(parsed) * time.Second

	// Store the instance
	instance = cfg

	return cfg, nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
