package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chapterly/internal/modules/stats/domain"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", domain.Sparkline(nil))
	assert.Equal(t, "   ", domain.Sparkline([]float64{0, 0, 0}))
	assert.Equal(t, " @", domain.Sparkline([]float64{0, 2}))
}

func TestBars(t *testing.T) {
	lines := domain.Bars([]string{"Mon", "Tue"}, []float64{1, 0.5}, 4)

	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Mon ████ 1h 00m"))
	assert.True(t, strings.HasPrefix(lines[1], "Tue ██·· 30m"))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0m", domain.FormatHours(0))
	assert.Equal(t, "15m", domain.FormatHours(0.25))
	assert.Equal(t, "2h 30m", domain.FormatHours(2.5))
}
