package output

import (
	"strings"
	"testing"
)

func TestScoreBarFill(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tests := []struct {
		score      float64
		width      int
		wantFilled int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{150, 10, 10}, // clamped
		{-5, 10, 0},   // clamped
	}

	for _, tc := range tests {
		bar := ScoreBar(tc.score, tc.width)
		filled := strings.Count(bar, "█")
		if filled != tc.wantFilled {
			t.Errorf("ScoreBar(%v, %d): %d filled cells, want %d", tc.score, tc.width, filled, tc.wantFilled)
		}
	}
}

func TestFocusGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{98, "Excellent"},
		{90, "Excellent"},
		{75, "Good"},
		{55, "Needs work"},
		{10, "Too many distractions"},
	}

	for _, tc := range tests {
		if got := FocusGrade(tc.score); got != tc.want {
			t.Errorf("FocusGrade(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestHeatCellNoColor(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := HeatCell(85, true); got != "█ " {
		t.Errorf("data cell = %q", got)
	}
	if got := HeatCell(0, false); got != "· " {
		t.Errorf("empty cell = %q", got)
	}
}

func TestTrendArrowDirection(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := TrendArrow(1.5, true); !strings.Contains(got, "▲ +1.5") {
		t.Errorf("positive delta = %q", got)
	}
	if got := TrendArrow(-2.0, true); !strings.Contains(got, "▼ -2.0") {
		t.Errorf("negative delta = %q", got)
	}
	if got := TrendArrow(0, true); !strings.Contains(got, "─") {
		t.Errorf("zero delta = %q", got)
	}
}
