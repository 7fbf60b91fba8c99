// Package config loads the run configuration for the sensorcluster command.
//
// Precedence, highest first: command-line flags bound into the viper
// instance, SENSORCLUSTER_* environment variables (including those loaded
// from .env files), the optional config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/logging"
	"github.com/banshee-data/sensorcluster/internal/records"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SENSORCLUSTER"

// Defaults.
const (
	DefaultInput  = "data.csv"
	DefaultOutput = "clustered_data.csv"
)

// Source kinds.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Configuration keys shared by viper, flags and config files.
const (
	KeyConfig     = "config"
	KeyInput      = "input"
	KeyOutput     = "output"
	KeySource     = "source"
	KeyTable      = "table"
	KeyThreshold  = "threshold"
	KeyIDStrategy = "id_strategy"
	KeySeed       = "seed"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyLogOutput  = "log_output"
)

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// RunConfig holds everything needed for one clustering run.
type RunConfig struct {
	Input      string
	Output     string
	SourceKind string
	Table      string

	Threshold  float64
	IDStrategy string
	Seed       uint64

	Log logging.Config

	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyInput, DefaultInput)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeySource, SourceCSV)
	v.SetDefault(KeyTable, records.DefaultSQLiteTable)
	v.SetDefault(KeyThreshold, cluster.DefaultThreshold)
	v.SetDefault(KeyIDStrategy, cluster.IDStrategyRandom)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatAuto)
	v.SetDefault(KeyLogOutput, logging.OutputStderr)
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are skipped; variables already set are not overridden.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load builds and validates a RunConfig from v.
func Load(v *viper.Viper) (*RunConfig, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path := v.GetString(KeyConfig); path != "" {
		if err := readConfigFile(v, path); err != nil {
			return nil, err
		}
	}

	cfg := &RunConfig{
		Input:      v.GetString(KeyInput),
		Output:     v.GetString(KeyOutput),
		SourceKind: strings.ToLower(v.GetString(KeySource)),
		Table:      v.GetString(KeyTable),
		Threshold:  v.GetFloat64(KeyThreshold),
		IDStrategy: strings.ToLower(v.GetString(KeyIDStrategy)),
		Seed:       v.GetUint64(KeySeed),
		Log: logging.Config{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			Output: v.GetString(KeyLogOutput),
		},
		ConfigFile: v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	cleanPath := filepath.Clean(path)
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json", ".yaml", ".yml", ".toml":
	default:
		return fmt.Errorf("config file must be .json, .yaml, .yml or .toml, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	v.SetConfigFile(cleanPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input path must not be empty"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output path must not be empty"))
	}
	if c.Input != "" && c.Output != "" && filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		errs = append(errs, fmt.Errorf("output %q would overwrite the input", c.Output))
	}

	switch c.SourceKind {
	case SourceCSV, SourceSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown source %q, want %s or %s", c.SourceKind, SourceCSV, SourceSQLite))
	}

	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		errs = append(errs, fmt.Errorf("threshold must be a non-negative number, got %v", c.Threshold))
	}

	switch c.IDStrategy {
	case cluster.IDStrategyRandom, cluster.IDStrategySequential:
	default:
		errs = append(errs, fmt.Errorf("unknown id strategy %q, want %s or %s",
			c.IDStrategy, cluster.IDStrategyRandom, cluster.IDStrategySequential))
	}

	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ClusterParams returns the clustering parameters for the run.
func (c *RunConfig) ClusterParams() cluster.Params {
	return cluster.Params{Threshold: c.Threshold}
}
