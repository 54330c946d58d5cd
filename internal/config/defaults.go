// Package config provides configuration loading and defaults for deskwatch.
package config

// DefaultConfigDir is the default location for deskwatch configuration.
const DefaultConfigDir = "~/.config/deskwatch"

// DefaultDataDir is the default location for the database and logs.
const DefaultDataDir = "~/.local/share/deskwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "deskwatch.db"

// DefaultLogName is the filename for the daemon log.
const DefaultLogName = "deskwatch.log"

// DefaultPollSeconds is the session tracker's polling interval.
const DefaultPollSeconds = 1.0

// DefaultMinDurationSeconds is the shortest segment worth persisting.
// Anything quicker is a blink switch, noise rather than signal.
const DefaultMinDurationSeconds = 2.0

// DefaultSnapshot holds the system snapshot collector defaults.
var DefaultSnapshot = Snapshot{
	IntervalSeconds: 30,
	TopN:            15,
}

// DefaultSearchSync holds the browser sync worker defaults.
var DefaultSearchSync = SearchSync{
	IntervalSeconds: 300,
	WindowMinutes:   10,
}

// DefaultFocus holds the focus monitor defaults.
var DefaultFocus = Focus{
	PollSeconds: 1.0,
}

// DefaultLog holds the logging defaults. An empty file means stderr for
// one-shot commands; the run command fills in the data-dir log path.
var DefaultLog = Log{
	Level:  "info",
	Format: "text",
}
