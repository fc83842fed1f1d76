package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	MetadataBaseURL           string
	MetadataObservatoriesPath string
	MetadataDefinitivesPath   string
	MetadataTimeout           time.Duration
	MetadataRPS               float64

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	DefaultPageSize int
	HTMLPretty      bool

	// Kafka publishing is disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether observatory records are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is read first; it never
// overrides variables already set in the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	metadataTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("METADATA_TIMEOUT", "30s"))
	if err != nil || metadataTimeout <= 0 {
		return nil, errors.New("invalid METADATA_TIMEOUT: must be a positive duration")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("METADATA_RPS", "2"), 64)
	if err != nil || rps < 0 {
		return nil, errors.New("invalid METADATA_RPS: must be a non-negative number")
	}

	pageSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("DEFAULT_PAGE_SIZE", strconv.Itoa(table.DefaultPageSize)))
	if err != nil || !table.ValidPageSize(pageSize) {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_SIZE: must be one of %v", table.PageSizes)
	}

	pretty, err := strconv.ParseBool(sharedcfg.EnvOrDefault("HTML_PRETTY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTML_PRETTY: %w", err)
	}

	cfg := &Config{
		MetadataBaseURL:           sharedcfg.EnvOrDefault("METADATA_BASE_URL", "https://geomag.bgs.ac.uk/im_mdata/imag_reports"),
		MetadataObservatoriesPath: sharedcfg.EnvOrDefault("METADATA_OBSERVATORIES_PATH", "/intermagnet/?format=json"),
		MetadataDefinitivesPath:   sharedcfg.EnvOrDefault("METADATA_DEFINITIVES_PATH", "/definitive/?format=json"),
		MetadataTimeout:           metadataTimeout,
		MetadataRPS:               rps,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DefaultPageSize: pageSize,
		HTMLPretty:      pretty,

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "geomag-observatories"),
	}

	if cfg.MetadataBaseURL == "" {
		return nil, errors.New("METADATA_BASE_URL is required")
	}

	return cfg, nil
}
