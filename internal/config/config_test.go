package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PollInterval() != time.Second {
		t.Errorf("poll interval = %v, want 1s", cfg.PollInterval())
	}
	if cfg.MinDuration() != 2*time.Second {
		t.Errorf("min duration = %v, want 2s", cfg.MinDuration())
	}
	if cfg.SnapshotInterval() != 30*time.Second {
		t.Errorf("snapshot interval = %v, want 30s", cfg.SnapshotInterval())
	}
	if cfg.Snapshot.TopN != 15 {
		t.Errorf("top n = %d, want 15", cfg.Snapshot.TopN)
	}
	if cfg.SearchSyncInterval() != 5*time.Minute {
		t.Errorf("sync interval = %v, want 5m", cfg.SearchSyncInterval())
	}
	if cfg.SearchSyncWindow() != 10*time.Minute {
		t.Errorf("sync window = %v, want 10m", cfg.SearchSyncWindow())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if filepath.Base(cfg.DBPath()) != DefaultDBName {
		t.Errorf("db path = %q", cfg.DBPath())
	}
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
poll_interval_seconds: 0.5
min_duration_seconds: 5
data_dir: ` + dir + `
snapshot:
  interval_seconds: 60
  top_n: 5
log:
  level: debug
  format: json
rules:
  productive_processes: [blender, godot]
  distraction_keywords: [raid night]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PollInterval() != 500*time.Millisecond {
		t.Errorf("poll interval = %v, want 500ms", cfg.PollInterval())
	}
	if cfg.MinDuration() != 5*time.Second {
		t.Errorf("min duration = %v, want 5s", cfg.MinDuration())
	}
	if cfg.Snapshot.TopN != 5 {
		t.Errorf("top n = %d, want 5", cfg.Snapshot.TopN)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q", cfg.Log.Format)
	}
	if len(cfg.Rules.ProductiveProcesses) != 2 || cfg.Rules.ProductiveProcesses[0] != "blender" {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if cfg.DBPath() != filepath.Join(dir, DefaultDBName) {
		t.Errorf("db path = %q", cfg.DBPath())
	}
	if cfg.LogPath() != filepath.Join(dir, DefaultLogName) {
		t.Errorf("log path = %q", cfg.LogPath())
	}
}

func TestSearchSyncUnsetWindow(t *testing.T) {
	cfg := &Config{SearchSync: SearchSync{WindowMinutes: 0}}
	if cfg.SearchSyncWindow() != 0 {
		t.Errorf("window = %v, want 0", cfg.SearchSyncWindow())
	}
}
