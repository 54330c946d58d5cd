package output

import (
	"fmt"
	"time"
)

// Duration renders a duration the way the reports show time: "42s",
// "12m 5s", "2h 13m". Sub-minute values keep no decimal places.
func Duration(d time.Duration) string {
	return DurationSeconds(d.Seconds())
}

// DurationSeconds is Duration for values already held as seconds, which
// is how the store returns them.
func DurationSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%.0fs", seconds)
	}
	if seconds < 3600 {
		m := int(seconds) / 60
		s := int(seconds) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	return fmt.Sprintf("%dh %dm", h, m)
}

// Memory renders a megabyte figure with a unit that keeps the number
// readable.
func Memory(mb float64) string {
	if mb < 1 {
		return fmt.Sprintf("%.0f KB", mb*1024)
	}
	if mb < 1024 {
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.2f GB", mb/1024)
}

// Percent renders a 0-100 value with one decimal place.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Truncate shortens text to max runes, ending with an ellipsis when cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return text
}
