package timer

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	sessiondto "chapterly/internal/modules/session/dto"
	statsdomain "chapterly/internal/modules/stats/domain"
	widgetdto "chapterly/internal/modules/widget/dto"
	"chapterly/internal/ui/theme"
)

// StateMsg replaces the whole timer state, e.g. after start or pause.
type StateMsg struct {
	Timer sessiondto.TimerOutput
}

// TickMsg carries the elapsed time of the running timer.
type TickMsg struct {
	Elapsed time.Duration
}

type SnapshotMsg struct {
	Snapshot widgetdto.SnapshotOutput
	Err      error
}

type Model struct {
	timer    sessiondto.TimerOutput
	snapshot widgetdto.SnapshotOutput
	last     *sessiondto.StopOutput
	width    int
	height   int
}

func New() Model {
	return Model{timer: sessiondto.TimerOutput{Status: "idle"}}
}

func (m Model) Timer() sessiondto.TimerOutput {
	return m.timer
}

// Stopped records the last committed session and resets the clock display.
func (m *Model) Stopped(out sessiondto.StopOutput) {
	m.last = &out
	m.timer = sessiondto.TimerOutput{Status: "idle"}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StateMsg:
		m.timer = msg.Timer
	case TickMsg:
		if m.timer.Status == "running" {
			m.timer.Elapsed = msg.Elapsed
		}
	case SnapshotMsg:
		if msg.Err == nil {
			m.snapshot = msg.Snapshot
		}
	}
	return m, nil
}

func (m Model) View() string {
	clock := theme.TimerClock(m.timer.Status).Render(Format(m.timer.Elapsed))
	var status string
	switch m.timer.Status {
	case "running":
		status = theme.Hot.Render("● reading ") + m.title()
	case "paused":
		status = theme.Muted.Render("❚❚ paused ") + m.title()
	default:
		status = theme.Muted.Render("no active timer")
	}

	var sb strings.Builder
	sb.WriteString(status + "\n\n" + clock + "\n\n")
	if m.last != nil {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("last session %s, book total %s",
			statsdomain.FormatHours(m.last.Session.Duration), statsdomain.FormatHours(m.last.BookTotal))) + "\n")
	}
	sb.WriteString(theme.Muted.Render("s: start on Library tab  p: pause/resume  x: stop"))
	timerPane := theme.TimerPane(m.timer.Status).Render(sb.String())

	widgetPane := theme.Pane.Render(m.renderSnapshot())
	body := lipgloss.JoinVertical(lipgloss.Center, timerPane, "", widgetPane)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) title() string {
	if m.timer.BookTitle != "" {
		return m.timer.BookTitle
	}
	return m.timer.BookID
}

func (m Model) renderSnapshot() string {
	s := m.snapshot
	if s.Cleared {
		return theme.Title.Render("Most read") + "\n" + theme.Muted.Render("nothing yet")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Most read") + "\n")
	sb.WriteString(s.BookTitle + "\n")
	if s.BookAuthor != "" {
		sb.WriteString(theme.Muted.Render(s.BookAuthor) + "\n")
	}
	sb.WriteString(statsdomain.FormatHours(s.TotalReadingTime) + " read\n")
	if s.IsTimerRunning {
		sb.WriteString(theme.Hot.Render("timing since "+humanize.Time(s.TimerStartTime)) + "\n")
	}
	if s.StreakDays > 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d-day streak", s.StreakDays)) + "\n")
	}
	return sb.String()
}

// Format renders d as HH:MM:SS.
func Format(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
}
