package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level deskwatch configuration.
type Config struct {
	PollIntervalSeconds float64    `mapstructure:"poll_interval_seconds"`
	MinDurationSeconds  float64    `mapstructure:"min_duration_seconds"`
	DataDir             string     `mapstructure:"data_dir"`
	Snapshot            Snapshot   `mapstructure:"snapshot"`
	SearchSync          SearchSync `mapstructure:"search_sync"`
	Focus               Focus      `mapstructure:"focus"`
	Log                 Log        `mapstructure:"log"`
	Rules               Rules      `mapstructure:"rules"`
	Output              Output     `mapstructure:"output"`
}

// Snapshot configures the system snapshot collector.
type Snapshot struct {
	IntervalSeconds float64 `mapstructure:"interval_seconds"`
	TopN            int     `mapstructure:"top_n"`
}

// SearchSync configures the browser search/visit sync worker.
type SearchSync struct {
	IntervalSeconds float64 `mapstructure:"interval_seconds"`
	WindowMinutes   int     `mapstructure:"window_minutes"`
}

// Focus configures the focus session monitor.
type Focus struct {
	PollSeconds float64 `mapstructure:"poll_interval_seconds"`
}

// Log configures the structured logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Rules carries user-defined categorization overrides. They take precedence
// over every built-in rule.
type Rules struct {
	ProductiveProcesses  []string `mapstructure:"productive_processes"`
	DistractionProcesses []string `mapstructure:"distraction_processes"`
	ProductiveKeywords   []string `mapstructure:"productive_keywords"`
	DistractionKeywords  []string `mapstructure:"distraction_keywords"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// PollInterval returns the tracker poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return secondsToDuration(c.PollIntervalSeconds)
}

// MinDuration returns the minimum persisted segment length.
func (c *Config) MinDuration() time.Duration {
	return secondsToDuration(c.MinDurationSeconds)
}

// SnapshotInterval returns the snapshot collector cadence.
func (c *Config) SnapshotInterval() time.Duration {
	return secondsToDuration(c.Snapshot.IntervalSeconds)
}

// SearchSyncInterval returns the browser sync cadence.
func (c *Config) SearchSyncInterval() time.Duration {
	return secondsToDuration(c.SearchSync.IntervalSeconds)
}

// SearchSyncWindow returns the first sync cycle's lookback.
func (c *Config) SearchSyncWindow() time.Duration {
	return time.Duration(c.SearchSync.WindowMinutes) * time.Minute
}

// FocusPollInterval returns the focus monitor cadence.
func (c *Config) FocusPollInterval() time.Duration {
	return secondsToDuration(c.Focus.PollSeconds)
}

// DBPath returns the full path to the SQLite database.
func (c *Config) DBPath() string {
	return filepath.Join(expandPath(c.DataDir), DefaultDBName)
}

// LogPath returns the daemon log path: the configured file, or the default
// under the data dir.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return expandPath(c.Log.File)
	}
	return filepath.Join(expandPath(c.DataDir), DefaultLogName)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("poll_interval_seconds", DefaultPollSeconds)
	v.SetDefault("min_duration_seconds", DefaultMinDurationSeconds)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("snapshot.interval_seconds", DefaultSnapshot.IntervalSeconds)
	v.SetDefault("snapshot.top_n", DefaultSnapshot.TopN)
	v.SetDefault("search_sync.interval_seconds", DefaultSearchSync.IntervalSeconds)
	v.SetDefault("search_sync.window_minutes", DefaultSearchSync.WindowMinutes)
	v.SetDefault("focus.poll_interval_seconds", DefaultFocus.PollSeconds)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("log.file", DefaultLog.File)
	v.SetDefault("output.color", true)
	v.SetDefault("output.width", 80)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error for problems other than file not found.
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
