package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "chapterly/internal/modules/session/dto"
	statsdomain "chapterly/internal/modules/stats/domain"
	widgetdto "chapterly/internal/modules/widget/dto"
	"chapterly/internal/platform/calendar"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/ui/components"
	"chapterly/internal/ui/theme"
	libraryview "chapterly/internal/ui/views/library"
	statsview "chapterly/internal/ui/views/stats"
	timerview "chapterly/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, bookID string) (sessiondto.TimerOutput, error)
	Pause(ctx context.Context) (sessiondto.TimerOutput, error)
	Stop(ctx context.Context) (sessiondto.StopOutput, error)
	Status(ctx context.Context) (sessiondto.TimerOutput, error)
	Watch(ctx context.Context) <-chan time.Duration
	RefreshProjection(ctx context.Context) error
}

type widgetPort interface {
	Show(ctx context.Context) (widgetdto.SnapshotOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLibrary tabID = iota
	tabTimer
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Library", "Timer", "Stats"}

// ─── async messages ──────────────────────────────────────────────────────────

type timerChangedMsg struct {
	timer sessiondto.TimerOutput
	err   error
}

type timerStoppedMsg struct {
	out sessiondto.StopOutput
	err error
}

type tickMsg struct {
	elapsed time.Duration
	open    bool
}

type refreshedMsg struct{ err error }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Range   key.Binding
	Shift   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start timing")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop and save")),
		Range:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stats timeframe")),
		Shift:   key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "previous/next period")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.Pause, k.Stop},
		{k.Range, k.Shift},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the timer
// subscription, the help overlay and the command palette.
type Model struct {
	ctx     context.Context
	session sessionPort
	widget  widgetPort
	ticks   <-chan time.Duration

	libView   libraryview.Model
	timerView timerview.Model
	statsView statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(
	ctx context.Context,
	library libraryview.LibraryPort,
	session sessionPort,
	stats statsview.StatsPort,
	widget widgetPort,
) Model {
	return Model{
		ctx:       ctx,
		session:   session,
		widget:    widget,
		ticks:     session.Watch(ctx),
		libView:   libraryview.New(library),
		timerView: timerview.New(),
		statsView: statsview.New(stats, time.Now()),
		activeTab: tabLibrary,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(paletteCommands),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.libView.Init(),
		m.statsView.Init(),
		m.statusCmd(),
		m.snapshotCmd(),
		m.waitTick(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		if !msg.open {
			return m, nil
		}
		m.timerView, _ = m.timerView.Update(timerview.TickMsg{Elapsed: msg.elapsed})
		return m, m.waitTick()

	case timerChangedMsg:
		if msg.err != nil {
			m.status = describe("timer", msg.err)
			return m, nil
		}
		m.timerView, _ = m.timerView.Update(timerview.StateMsg{Timer: msg.timer})
		if msg.timer.Status != "idle" {
			m.status = msg.timer.Status + ": " + titleOrID(msg.timer)
		}
		return m, m.snapshotCmd()

	case timerStoppedMsg:
		if msg.err != nil {
			m.status = describe("stop", msg.err)
			return m, nil
		}
		m.timerView.Stopped(msg.out)
		m.status = "saved " + statsdomain.FormatHours(msg.out.Session.Duration)
		if msg.out.AccumulatorSkipped {
			m.status += " (book was removed)"
		}
		return m, tea.Batch(m.libView.Reload(), m.statsView.Reload(), m.snapshotCmd())

	case timerview.SnapshotMsg:
		m.timerView, _ = m.timerView.Update(msg)
		return m, nil

	case statsview.LoadedMsg:
		m.statsView, _ = m.statsView.Update(msg)
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.status = describe("widget", msg.err)
		} else {
			m.status = "widget refreshed"
		}
		return m, m.snapshotCmd()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabLibrary && m.libView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "s":
			if m.activeTab == tabLibrary {
				if id, ok := m.libView.SelectedBookID(); ok {
					return m, m.startCmd(id)
				}
			}
		case "p":
			return m, m.togglePauseCmd()
		case "x":
			return m, m.stopCmd()
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	// Data for inactive tabs still has to land.
	switch msg.(type) {
	case libraryview.BooksLoadedMsg, libraryview.DetailLoadedMsg:
		if m.activeTab != tabLibrary {
			m.libView, tabCmd = m.libView.Update(msg)
			cmds = append(cmds, tabCmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.View()
	case tabTimer:
		return m.timerView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "chapterly  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	t := m.timerView.Timer()
	switch t.Status {
	case "running":
		left = theme.Hot.Render("● "+titleOrID(t)+" "+timerview.Format(t.Elapsed)) + "  " + left
	case "paused":
		left = theme.Muted.Render("❚❚ "+titleOrID(t)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m *Model) propagateSize() {
	contentH := max(m.height-4, 1)
	sized := tea.WindowSizeMsg{Width: m.width, Height: contentH}
	m.libView, _ = m.libView.Update(sized)
	m.timerView, _ = m.timerView.Update(sized)
	m.statsView, _ = m.statsView.Update(sized)
}

// ─── palette execution ───────────────────────────────────────────────────────

var paletteCommands = []components.Command{
	{Name: "timer:start", Help: "time the selected book"},
	{Name: "timer:pause", Help: "pause the running timer"},
	{Name: "timer:resume", Help: "resume the paused book"},
	{Name: "timer:stop", Help: "stop and record the session"},
	{Name: "stats:day", Help: "statistics for one day"},
	{Name: "stats:week", Help: "statistics for a week"},
	{Name: "stats:month", Help: "statistics for a month"},
	{Name: "stats:date", Args: "<when>", Help: `e.g. "yesterday", 2024-03-20`},
	{Name: "library:reload", Help: "reread the library"},
	{Name: "widget:refresh", Help: "republish the most-read snapshot"},
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "timer:start":
		id, ok := m.libView.SelectedBookID()
		if !ok {
			m.status = "no book selected"
			return m, nil
		}
		return m, m.startCmd(id)
	case "timer:pause", "timer:resume":
		return m, m.togglePauseCmd()
	case "timer:stop":
		return m, m.stopCmd()
	case "stats:day", "stats:week", "stats:month":
		m.statsView.SetTimeframe(strings.TrimPrefix(parts[0], "stats:"))
		m.activeTab = tabStats
		return m, m.statsView.Reload()
	case "stats:date":
		raw := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		ref, err := calendar.ParseReference(raw, time.Now())
		if err != nil {
			m.status = describe("date", err)
			return m, nil
		}
		m.statsView.SetReference(ref)
		m.activeTab = tabStats
		return m, m.statsView.Reload()
	case "library:reload":
		return m, m.libView.Reload()
	case "widget:refresh":
		return m, m.refreshCmd()
	}
	m.status = fmt.Sprintf("unknown command %q", parts[0])
	return m, nil
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) waitTick() tea.Cmd {
	ticks := m.ticks
	return func() tea.Msg {
		elapsed, ok := <-ticks
		return tickMsg{elapsed: elapsed, open: ok}
	}
}

func (m Model) statusCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Status(m.ctx)
		return timerChangedMsg{timer: out, err: err}
	}
}

func (m Model) startCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(m.ctx, bookID)
		return timerChangedMsg{timer: out, err: err}
	}
}

// togglePauseCmd pauses a running timer and resumes a paused one.
func (m Model) togglePauseCmd() tea.Cmd {
	current := m.timerView.Timer()
	return func() tea.Msg {
		if current.Status == "paused" {
			out, err := m.session.Start(m.ctx, current.BookID)
			return timerChangedMsg{timer: out, err: err}
		}
		out, err := m.session.Pause(m.ctx)
		return timerChangedMsg{timer: out, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Stop(m.ctx)
		return timerStoppedMsg{out: out, err: err}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.widget.Show(m.ctx)
		return timerview.SnapshotMsg{Snapshot: out, Err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.session.RefreshProjection(m.ctx)}
	}
}

func titleOrID(t sessiondto.TimerOutput) string {
	if t.BookTitle != "" {
		return t.BookTitle
	}
	return t.BookID
}

func describe(action string, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoActiveTimer):
		return action + ": no active timer"
	case errors.Is(err, apperrors.ErrTimerAlreadyRunning):
		return action + ": timer already running"
	case errors.Is(err, apperrors.ErrTimerBusy):
		return action + ": timer is tracking another book, stop it first"
	case errors.Is(err, apperrors.ErrNotFound):
		return action + ": book not found"
	}
	return action + ": " + err.Error()
}
