package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SCHOLAR"

// Config holds all CLI configuration.
type Config struct {
	Logging LogConfig
	Report  ReportConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// ReportConfig controls where the roster comes from and how results render.
type ReportConfig struct {
	RosterFile     string `envconfig:"ROSTER_FILE"`                   // empty = built-in sample
	Format         string `envconfig:"FORMAT" default:"text"`         // text, json, pretty, csv, xlsx
	DefaultMeasure string `envconfig:"DEFAULT_MEASURE" default:"GPA"` // measure when none is named
}

// Load reads the given .env files (".env" when none are named; a missing
// file is not an error) and then processes SCHOLAR_* variables.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	var log LogConfig
	if err := envconfig.Process(Prefix, &log); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	var report ReportConfig
	if err := envconfig.Process(Prefix, &report); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &Config{Logging: log, Report: report}, nil
}

// Default returns the configuration Load yields from an empty environment.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Report: ReportConfig{
			Format:         "text",
			DefaultMeasure: "GPA",
		},
	}
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", f, err)
		}
	}
	return nil
}
