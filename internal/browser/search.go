package browser

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/blackwell-systems/deskwatch/internal/category"
)

// enginePattern matches a search engine's result URL and names the query
// parameter carrying the search text.
type enginePattern struct {
	re     *regexp.Regexp
	param  string
	source string
}

var searchEngines = []enginePattern{
	{regexp.MustCompile(`google\.\w+/search`), "q", "Google"},
	{regexp.MustCompile(`bing\.com/search`), "q", "Bing"},
	{regexp.MustCompile(`duckduckgo\.com/`), "q", "DuckDuckGo"},
	{regexp.MustCompile(`youtube\.com/results`), "search_query", "YouTube"},
	{regexp.MustCompile(`search\.yahoo\.com/search`), "p", "Yahoo"},
	{regexp.MustCompile(`ecosia\.org/search`), "q", "Ecosia"},
	{regexp.MustCompile(`startpage\.com/search`), "query", "Startpage"},
	{regexp.MustCompile(`search\.brave\.com/search`), "q", "Brave Search"},
	{regexp.MustCompile(`github\.com/search`), "q", "GitHub"},
	{regexp.MustCompile(`stackoverflow\.com/search`), "q", "Stack Overflow"},
	{regexp.MustCompile(`pypi\.org/search`), "q", "PyPI"},
	{regexp.MustCompile(`npmjs\.com/search`), "q", "npm"},
}

// ParseSearchURL extracts a search query from a URL. ok is false when the
// URL is not a recognized search results page.
func ParseSearchURL(rawURL string) (query, source string, ok bool) {
	for _, e := range searchEngines {
		if !e.re.MatchString(rawURL) {
			continue
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		q := strings.TrimSpace(u.Query().Get(e.param))
		if q != "" {
			return q, e.source, true
		}
	}
	return "", "", false
}

// titleSearches match browser title bars of the form
// "python sqlite tutorial - Google Search - Google Chrome".
var titleSearches = []struct {
	re     *regexp.Regexp
	source string
}{
	{regexp.MustCompile(`(?i)^(.+?)\s*[-–—]\s*Google Search`), "Google"},
	{regexp.MustCompile(`(?i)^(.+?)\s*[-–—]\s*Search\s*[-–—]\s*Bing`), "Bing"},
	{regexp.MustCompile(`(?i)^(.+?)\s*at DuckDuckGo`), "DuckDuckGo"},
	{regexp.MustCompile(`(?i)^(.+?)\s*[-–—]\s*YouTube$`), "YouTube"},
}

// FromTitle extracts a search query from a browser window title. ok is
// false for non-browser apps, non-search titles, and queries too short to
// be meaningful.
func FromTitle(app, title string, now time.Time) (Search, bool) {
	if !category.IsBrowser(app) {
		return Search{}, false
	}
	for _, p := range titleSearches {
		m := p.re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		q := strings.TrimSpace(m[1])
		if len(q) <= 2 {
			continue
		}
		return Search{
			Timestamp: now,
			Browser:   displayName(app),
			Query:     q,
			Source:    p.source,
		}, true
	}
	return Search{}, false
}

// dedupeSearches keeps the first occurrence of each query, compared
// case-insensitively. Input order is preserved, so newest-first input keeps
// the most recent record.
func dedupeSearches(searches []Search) []Search {
	seen := make(map[string]struct{}, len(searches))
	out := searches[:0]
	for _, s := range searches {
		key := strings.ToLower(s.Query)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
