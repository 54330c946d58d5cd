// Package browser defines search and page-visit records and the parsers
// that produce them. Searches come from two places: window titles observed
// live by the session tracker ("query - Google Search - Chrome"), and any
// external history producer implementing Source, drained periodically by
// the Syncer. This package never opens browser profiles itself.
package browser

import (
	"strings"
	"time"
	"unicode"
)

// Search is one extracted search query.
type Search struct {
	Timestamp time.Time
	Browser   string
	Query     string
	URL       string
	Source    string // Google, Bing, DuckDuckGo, YouTube, ...
}

// PageVisit is one page load reported by a history producer.
type PageVisit struct {
	Timestamp time.Time
	Browser   string
	URL       string
	Title     string
	Duration  time.Duration
	Domain    string
}

// displayName renders a process identity as a browser display name:
// "chrome.exe" becomes "Chrome".
func displayName(app string) string {
	app = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(app)), ".exe")
	if app == "" {
		return ""
	}
	r := []rune(app)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
