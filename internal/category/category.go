// Package category classifies desktop activity into productivity categories.
//
// Classification is a pure function of (process identity, window title):
// process-name rules are checked first, then browsers get a title-based
// sub-classification, then a general title cascade, falling back to Other.
// User-supplied rules override every built-in.
package category

import "strings"

// Category is one of the closed set of productivity categories.
type Category string

const (
	Development   Category = "Development"
	Browsing      Category = "Browsing"
	Research      Category = "Research"
	Communication Category = "Communication"
	Productivity  Category = "Productivity"
	Distraction   Category = "Distraction"
	Other         Category = "Other"
)

// All lists every category in display order.
var All = []Category{
	Development, Research, Productivity, Communication, Browsing, Distraction, Other,
}

// Rules holds user-defined overrides loaded from config. Process names are
// matched after normalization, keywords as case-insensitive substrings of
// the window title.
type Rules struct {
	ProductiveProcesses  []string
	DistractionProcesses []string
	ProductiveKeywords   []string
	DistractionKeywords  []string
}

// Engine applies user rules and the built-in rule sets.
type Engine struct {
	productiveProcs  map[string]struct{}
	distractionProcs map[string]struct{}
	productiveWords  []string
	distractionWords []string
}

// NewEngine builds an Engine with the given user overrides. A zero Rules
// value yields the built-in behavior only.
func NewEngine(rules Rules) *Engine {
	e := &Engine{
		productiveProcs:  make(map[string]struct{}, len(rules.ProductiveProcesses)),
		distractionProcs: make(map[string]struct{}, len(rules.DistractionProcesses)),
	}
	for _, p := range rules.ProductiveProcesses {
		e.productiveProcs[Normalize(p)] = struct{}{}
	}
	for _, p := range rules.DistractionProcesses {
		e.distractionProcs[Normalize(p)] = struct{}{}
	}
	for _, w := range rules.ProductiveKeywords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			e.productiveWords = append(e.productiveWords, w)
		}
	}
	for _, w := range rules.DistractionKeywords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			e.distractionWords = append(e.distractionWords, w)
		}
	}
	return e
}

// Normalize canonicalizes a process identity for rule matching: lowercased,
// trimmed, Windows-style ".exe" suffix stripped. "Code.exe" and "code" match
// the same rules.
func Normalize(app string) string {
	app = strings.ToLower(strings.TrimSpace(app))
	return strings.TrimSuffix(app, ".exe")
}

// Categorize maps a process identity and window title to a Category. It is
// total: every input yields a value from the closed set.
func (e *Engine) Categorize(app, title string) Category {
	proc := Normalize(app)
	titleLower := strings.ToLower(strings.TrimSpace(title))

	// User overrides win over every built-in rule.
	if _, ok := e.productiveProcs[proc]; ok {
		return Productivity
	}
	if _, ok := e.distractionProcs[proc]; ok {
		return Distraction
	}
	for _, w := range e.productiveWords {
		if strings.Contains(titleLower, w) {
			return Productivity
		}
	}
	for _, w := range e.distractionWords {
		if strings.Contains(titleLower, w) {
			return Distraction
		}
	}

	if _, ok := devProcs[proc]; ok {
		return Development
	}
	if _, ok := communicationProcs[proc]; ok {
		return Communication
	}
	if _, ok := productivityProcs[proc]; ok {
		return Productivity
	}
	if _, ok := distractionProcs[proc]; ok {
		return Distraction
	}
	if _, ok := browserProcs[proc]; ok {
		return categorizeBrowserTitle(title)
	}
	return categorizeByTitle(title)
}

// categorizeBrowserTitle sub-classifies a browser window by its title.
// Productivity patterns run first: "Google Docs" must not fall through to
// the research "docs" pattern.
func categorizeBrowserTitle(title string) Category {
	switch {
	case matchAny(productivityTitles, title):
		return Productivity
	case matchAny(distractionTitles, title):
		return Distraction
	case matchAny(communicationTitles, title):
		return Communication
	case matchAny(researchTitles, title):
		return Research
	}
	return Browsing
}

// categorizeByTitle is the last-resort cascade for unknown processes.
func categorizeByTitle(title string) Category {
	switch {
	case matchAny(researchTitles, title):
		return Research
	case matchAny(distractionTitles, title):
		return Distraction
	case matchAny(communicationTitles, title):
		return Communication
	case matchAny(productivityTitles, title):
		return Productivity
	}
	return Other
}

// IsProductive reports whether a category counts toward productive time.
func IsProductive(c Category) bool {
	switch c {
	case Development, Research, Productivity:
		return true
	}
	return false
}

// IsBrowser reports whether the process identity is a known web browser.
func IsBrowser(app string) bool {
	_, ok := browserProcs[Normalize(app)]
	return ok
}
