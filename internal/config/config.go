// ABOUTME: YAML configuration with defaults, ~ expansion, and env overrides.
// ABOUTME: Gives the pipeline its store path and export folder.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/simon-de-jose/health-clawkit/internal/storage"
)

// Config holds all tool configuration.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Validation ValidationConfig `yaml:"validation"`
}

// DataConfig locates the store and the export folder to scan.
type DataConfig struct {
	DBPath       string `yaml:"db_path"`
	ExportFolder string `yaml:"export_folder"`
}

// ValidationConfig holds audit thresholds.
type ValidationConfig struct {
	HeartRateMin       float64 `yaml:"heart_rate_min"`
	HeartRateMax       float64 `yaml:"heart_rate_max"`
	RestingHRDeviation float64 `yaml:"resting_hr_deviation"`
	AnomalySigma       float64 `yaml:"anomaly_sigma"`
	MinDataPoints      int     `yaml:"min_data_points"`
	LookbackDays       int     `yaml:"lookback_days"`
}

// DefaultPath returns the config file path under the XDG config
// directory.
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "clawkit", "config.yaml")
}

// Load reads the config file, applies defaults for anything unset, then
// applies environment overrides (a .env file is respected). A missing
// file yields pure defaults; malformed YAML is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	cfg.Data.DBPath = ExpandPath(cfg.Data.DBPath)
	cfg.Data.ExportFolder = ExpandPath(cfg.Data.ExportFolder)
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.DBPath == "" {
		c.Data.DBPath = storage.DefaultDBPath()
	}
	if c.Data.ExportFolder == "" {
		home, _ := os.UserHomeDir()
		c.Data.ExportFolder = filepath.Join(home, "HealthExport")
	}
	if c.Validation.HeartRateMin == 0 {
		c.Validation.HeartRateMin = 30
	}
	if c.Validation.HeartRateMax == 0 {
		c.Validation.HeartRateMax = 220
	}
	if c.Validation.RestingHRDeviation == 0 {
		c.Validation.RestingHRDeviation = 15
	}
	if c.Validation.AnomalySigma == 0 {
		c.Validation.AnomalySigma = 3.0
	}
	if c.Validation.MinDataPoints == 0 {
		c.Validation.MinDataPoints = 30
	}
	if c.Validation.LookbackDays == 0 {
		c.Validation.LookbackDays = 30
	}
}

// applyEnv overrides paths from the environment. A .env file in the
// working directory is loaded first so cron wrappers can configure the
// tool without a config file.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("HEALTH_DB_PATH"); v != "" {
		c.Data.DBPath = v
	}
	if v := os.Getenv("HEALTH_EXPORT_FOLDER"); v != "" {
		c.Data.ExportFolder = v
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
