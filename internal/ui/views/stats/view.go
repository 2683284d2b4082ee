package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdomain "chapterly/internal/modules/stats/domain"
	statsdto "chapterly/internal/modules/stats/dto"
	"chapterly/internal/ui/theme"
)

type StatsPort interface {
	Statistics(ctx context.Context, timeframe string, reference time.Time) (statsdto.StatisticsOutput, error)
}

type LoadedMsg struct {
	Stats statsdto.StatisticsOutput
	Err   error
}

var timeframes = []string{"day", "week", "month"}

type Model struct {
	port      StatsPort
	timeframe int
	reference time.Time
	stats     statsdto.StatisticsOutput
	err       error
	width     int
	height    int
}

func New(port StatsPort, now time.Time) Model {
	return Model{port: port, timeframe: 1, reference: now}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	tf, ref := timeframes[m.timeframe], m.reference
	return func() tea.Msg {
		out, err := m.port.Statistics(context.Background(), tf, ref)
		return LoadedMsg{Stats: out, Err: err}
	}
}

// SetTimeframe switches to "day", "week" or "month".
func (m *Model) SetTimeframe(tf string) bool {
	for i, name := range timeframes {
		if name == tf {
			m.timeframe = i
			return true
		}
	}
	return false
}

func (m Model) Timeframe() string {
	return timeframes[m.timeframe]
}

func (m *Model) SetReference(ref time.Time) {
	m.reference = ref
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.stats, m.err = msg.Stats, msg.Err
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			m.timeframe = (m.timeframe + 1) % len(timeframes)
			return m, m.Reload()
		case "[":
			m.reference = m.shift(-1)
			return m, m.Reload()
		case "]":
			m.reference = m.shift(1)
			return m, m.Reload()
		}
	}
	return m, nil
}

func (m Model) shift(n int) time.Time {
	switch timeframes[m.timeframe] {
	case "day":
		return m.reference.AddDate(0, 0, n)
	case "month":
		return m.reference.AddDate(0, n, 0)
	default:
		return m.reference.AddDate(0, 0, 7*n)
	}
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Hot.Render("stats: " + m.err.Error())
	}
	s := m.stats
	var sb strings.Builder
	header := fmt.Sprintf("%s of %s", s.Timeframe, s.From.Format("Mon 02 Jan 2006"))
	sb.WriteString(theme.Title.Render(header) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("total   "), statsdomain.FormatHours(s.Total)))
	sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("average "), statsdomain.FormatHours(s.Average)))
	sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("longest "), statsdomain.FormatHours(s.Longest)))
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("sessions"), s.SessionCount))
	streak := statsdomain.FormatStreak(s.Streak.Current, s.Streak.Longest)
	if s.Streak.Current > 0 && !s.Streak.ReadToday {
		streak += theme.Muted.Render("  read today to keep it")
	}
	sb.WriteString(fmt.Sprintf("%s %s\n\n", theme.Muted.Render("streak  "), streak))
	barWidth := max(m.width/3, 10)
	for _, line := range statsdomain.Bars(s.Labels, s.Series, barWidth) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("t: day/week/month  [ ]: previous/next"))
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(sb.String())
}
