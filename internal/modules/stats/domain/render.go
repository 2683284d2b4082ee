package domain

import (
	"fmt"
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// Sparkline scales from zero so empty slots stay blank.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal < 1e-9 {
		return strings.Repeat(string(sparkChars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Bars renders one line per slot, the longest bar width cells wide.
func Bars(labels []string, values []float64, width int) []string {
	if width <= 0 {
		width = 30
	}
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}
	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	out := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		cells := 0
		if maxVal > 0 {
			cells = int(math.Round(v / maxVal * float64(width)))
		}
		out = append(out, fmt.Sprintf("%-*s %s %s", labelWidth, label, strings.Repeat("█", cells)+strings.Repeat("·", width-cells), FormatHours(v)))
	}
	return out
}

// FormatHours prints hours as "1h 05m", or minutes alone under an hour.
func FormatHours(hours float64) string {
	minutes := int(math.Round(hours * 60))
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
