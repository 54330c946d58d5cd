// Package store provides SQLite persistence for deskwatch activity data:
// segments, process snapshots, search and visit records, focus sessions, and
// the daily aggregates derived from them.
package store

import "time"

// Segment is one completed span of continuous foreground-window occupancy.
// Written once when finalized, never updated.
type Segment struct {
	ID              int64     `json:"id"`
	AppName         string    `json:"app_name"`
	WindowTitle     string    `json:"window_title"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	Category        string    `json:"category"`
	MemoryMB        float64   `json:"memory_mb"`
	CPUPercent      float64   `json:"cpu_percent"`
	PID             int       `json:"pid"`
}

// SearchRecord is one extracted search query.
type SearchRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Browser   string    `json:"browser"`
	Query     string    `json:"query"`
	URL       string    `json:"url,omitempty"`
	Source    string    `json:"source"`
}

// Visit is one browser page-visit record supplied by an external producer.
type Visit struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Browser         string    `json:"browser"`
	URL             string    `json:"url"`
	Title           string    `json:"title,omitempty"`
	DurationSeconds float64   `json:"visit_duration"`
	Domain          string    `json:"domain,omitempty"`
}

// ProcessSnapshot is one (timestamp, process) row from a system-wide scan.
// All rows of one scan share a timestamp.
type ProcessSnapshot struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	AppName    string    `json:"app_name"`
	PID        int       `json:"pid"`
	MemoryMB   float64   `json:"memory_mb"`
	CPUPercent float64   `json:"cpu_percent"`
	Status     string    `json:"status"`
	NumThreads int       `json:"num_threads"`
}

// DailyStat is the derived per-date summary row, recomputed by
// UpsertDailyStats. Date is a civil date in "2006-01-02" form.
type DailyStat struct {
	ID                 int64   `json:"id"`
	Date               string  `json:"date"`
	TotalSeconds       float64 `json:"total_seconds"`
	ProductiveSeconds  float64 `json:"productive_seconds"`
	DistractionSeconds float64 `json:"distraction_seconds"`
	TopApp             string  `json:"top_app"`
	TopCategory        string  `json:"top_category"`
	SessionCount       int     `json:"session_count"`
}

// AppUsage is the derived per-(date, app) aggregate row, recomputed by
// UpsertAppUsage.
type AppUsage struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	AppName       string  `json:"app_name"`
	TotalDuration float64 `json:"total_duration"`
	AvgMemoryMB   float64 `json:"avg_memory_mb"`
	AvgCPU        float64 `json:"avg_cpu"`
	LaunchCount   int     `json:"launch_count"`
	Category      string  `json:"category"`
	Role          string  `json:"role"`
}

// FocusSession is one finalized bounded attention session.
type FocusSession struct {
	ID                int64     `json:"id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	TargetMinutes     int       `json:"target_minutes"`
	FocusSeconds      float64   `json:"focus_seconds"`
	DistractedSeconds float64   `json:"distracted_seconds"`
	InterruptionCount int       `json:"interruption_count"`
	FocusScore        float64   `json:"focus_score"`
	GoalLabel         string    `json:"goal_label,omitempty"`
}

// CategorySlice is one row of a per-category daily breakdown.
type CategorySlice struct {
	Category     string  `json:"category"`
	TotalSeconds float64 `json:"total_seconds"`
	SwitchCount  int     `json:"switch_count"`
}

// AppSlice is one row of a per-app daily breakdown with resource averages.
type AppSlice struct {
	AppName      string  `json:"app_name"`
	TotalSeconds float64 `json:"total_seconds"`
	SwitchCount  int     `json:"switch_count"`
	AvgMemoryMB  float64 `json:"avg_memory_mb"`
	AvgCPU       float64 `json:"avg_cpu_percent"`
	PeakMemoryMB float64 `json:"peak_memory_mb"`
}

// TitleStat is one window title's share of an app's day.
type TitleStat struct {
	WindowTitle  string  `json:"window_title"`
	TotalSeconds float64 `json:"total_seconds"`
	Count        int     `json:"count"`
}

// ResourcePoint is one snapshot sample in an app's resource timeline.
type ResourcePoint struct {
	Timestamp  time.Time `json:"timestamp"`
	MemoryMB   float64   `json:"memory_mb"`
	CPUPercent float64   `json:"cpu_percent"`
	NumThreads int       `json:"num_threads"`
}

// AppAnalytics is the deep per-app view for a single date.
type AppAnalytics struct {
	AppName          string          `json:"app_name"`
	Date             string          `json:"date"`
	SessionCount     int             `json:"session_count"`
	TotalSeconds     float64         `json:"total_seconds"`
	AvgMemoryMB      float64         `json:"avg_memory_mb"`
	PeakMemoryMB     float64         `json:"peak_memory_mb"`
	AvgCPU           float64         `json:"avg_cpu"`
	PeakCPU          float64         `json:"peak_cpu"`
	FirstSeen        time.Time       `json:"first_seen"`
	LastSeen         time.Time       `json:"last_seen"`
	Category         string          `json:"category"`
	TopTitles        []TitleStat     `json:"top_titles"`
	ResourceTimeline []ResourcePoint `json:"resource_timeline"`
}

// AppDayUsage is one day of an app's multi-day history.
type AppDayUsage struct {
	Date         string  `json:"date"`
	TotalSeconds float64 `json:"total_seconds"`
	SessionCount int     `json:"session_count"`
	AvgMemoryMB  float64 `json:"avg_memory_mb"`
	AvgCPU       float64 `json:"avg_cpu"`
}

// TrackedApp is one row of the all-time per-app summary.
type TrackedApp struct {
	AppName       string  `json:"app_name"`
	TotalSeconds  float64 `json:"total_seconds"`
	TotalSessions int     `json:"total_sessions"`
	AvgMemoryMB   float64 `json:"avg_memory_mb"`
	PeakMemoryMB  float64 `json:"peak_memory_mb"`
	Category      string  `json:"category"`
}

// ProcessLoad is one row of the system-wide top-memory/top-CPU views over
// snapshot data.
type ProcessLoad struct {
	AppName       string  `json:"app_name"`
	AvgMemoryMB   float64 `json:"avg_memory_mb"`
	PeakMemoryMB  float64 `json:"peak_memory_mb"`
	AvgCPU        float64 `json:"avg_cpu"`
	PeakCPU       float64 `json:"peak_cpu,omitempty"`
	InstanceCount int     `json:"instance_count"`
}

// DomainStat is one domain's share of browser visits for a date.
type DomainStat struct {
	Domain        string  `json:"domain"`
	VisitCount    int     `json:"visit_count"`
	TotalDuration float64 `json:"total_duration"`
}

// HeatmapDay is one cell of the productivity heatmap. Score is
// round(productive/total*100), 0 for days with no tracked time.
type HeatmapDay struct {
	Date              string  `json:"date"`
	TotalSeconds      float64 `json:"total_seconds"`
	ProductiveSeconds float64 `json:"productive_seconds"`
	Score             int     `json:"score"`
}

// StreakInfo is the derived consecutive-day streak view.
type StreakInfo struct {
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	TotalDaysTracked int `json:"total_days_tracked"`
}

// FocusStats aggregates all stored focus sessions.
type FocusStats struct {
	TotalSessions      int     `json:"total_sessions"`
	TotalFocusSeconds  float64 `json:"total_focus_seconds"`
	AvgFocusScore      float64 `json:"avg_focus_score"`
	TotalInterruptions int     `json:"total_interruptions"`
	BestScore          float64 `json:"best_score"`
}
