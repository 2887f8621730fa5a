package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to run the culprit engine.
type Config struct {
	Archive  ArchiveConfig  `yaml:"archive"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Lock     LockConfig     `yaml:"lock"`
	Results  ResultsConfig  `yaml:"results"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ArchiveConfig configures access to the data-archive service.
type ArchiveConfig struct {
	BaseURL      string        `yaml:"baseURL"`
	ChannelsPath string        `yaml:"channelsPath"`
	StatePath    string        `yaml:"statePath"`
	MeanFreqPath string        `yaml:"meanFreqPath"`
	Timeout      time.Duration `yaml:"timeout"`
}

// AnalysisConfig holds the default analysis parameters and the ambient
// physical constants.
type AnalysisConfig struct {
	SampleRate             float64    `yaml:"sampleRate"`
	BounceOrder            int        `yaml:"bounceOrder"`
	SmoothWindow           int        `yaml:"smoothWindow"`
	Event                  string     `yaml:"event"`
	Bandpass               [2]float64 `yaml:"bandpass"`
	LaserWavelengthMicrons float64    `yaml:"laserWavelengthMicrons"`
	SavePredictors         bool       `yaml:"savePredictors"`
	CheckLock              bool       `yaml:"checkLock"`
}

// LockConfig maps instrument site prefixes to their lock-status channels.
// Instruments absent from the map skip the lock precondition.
type LockConfig struct {
	Channels    map[string]string `yaml:"channels"`
	LockedValue float64           `yaml:"lockedValue"`
}

// ResultsConfig controls the result store.
type ResultsConfig struct {
	Root             string `yaml:"root"`
	RequireEnvelopes bool   `yaml:"requireEnvelopes"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig controls the optional Prometheus endpoint served during
// batch runs. Empty address disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SCATTER_CULPRIT_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Archive: ArchiveConfig{
			ChannelsPath: "/api/v1/archive/channels",
			StatePath:    "/api/v1/archive/state",
			MeanFreqPath: "/api/v1/archive/mean-frequency",
			Timeout:      30 * time.Second,
		},
		Analysis: AnalysisConfig{
			SampleRate:             256,
			BounceOrder:            1,
			SmoothWindow:           50,
			Event:                  "center",
			Bandpass:               [2]float64{0.03, 10},
			LaserWavelengthMicrons: 1.064,
			SavePredictors:         true,
		},
		Lock: LockConfig{
			Channels: map[string]string{
				"L1": "L1:GRD-ISC_LOCK_OK",
				"V1": "V1:DQ_META_ITF_LOCK",
			},
			LockedValue: 1,
		},
		Results: ResultsConfig{Root: "results"},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCATTER_ARCHIVE_BASE_URL"); v != "" {
		cfg.Archive.BaseURL = v
	}
	if v := os.Getenv("SCATTER_ARCHIVE_CHANNELS_PATH"); v != "" {
		cfg.Archive.ChannelsPath = v
	}
	if v := os.Getenv("SCATTER_ARCHIVE_STATE_PATH"); v != "" {
		cfg.Archive.StatePath = v
	}
	if v := os.Getenv("SCATTER_ARCHIVE_MEAN_FREQ_PATH"); v != "" {
		cfg.Archive.MeanFreqPath = v
	}
	if v := os.Getenv("SCATTER_ARCHIVE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Archive.Timeout = d
		}
	}
	if v := os.Getenv("SCATTER_RESULTS_ROOT"); v != "" {
		cfg.Results.Root = v
	}
	if v := os.Getenv("SCATTER_SAMPLE_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.SampleRate = rate
		}
	}
	if v := os.Getenv("SCATTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SCATTER_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("SCATTER_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
	if v := os.Getenv("SCATTER_CHECK_LOCK"); v != "" {
		cfg.Analysis.CheckLock = strings.EqualFold(v, "true") || v == "1"
	}
}
