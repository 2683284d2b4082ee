package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	libdto "chapterly/internal/modules/library/dto"
	"chapterly/internal/ui/theme"
)

type LibraryPort interface {
	ListBooks(ctx context.Context, status string) ([]libdto.BookOutput, error)
	GetBook(ctx context.Context, id string) (libdto.BookDetailOutput, error)
}

type BooksLoadedMsg struct {
	Books []libdto.BookOutput
	Err   error
}

type DetailLoadedMsg struct {
	Detail libdto.BookDetailOutput
	Err    error
}

type bookItem struct {
	book libdto.BookOutput
}

func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	author := i.book.Author
	if author == "" {
		author = "unknown author"
	}
	return fmt.Sprintf("%s  %s  %.1fh", author, i.book.Status, i.book.TotalReadingTime)
}
func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }

type Model struct {
	port    LibraryPort
	list    list.Model
	detail  libdto.BookDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port LibraryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Library"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the book list again, e.g. after a session changed a total.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		books, err := m.port.ListBooks(context.Background(), "")
		return BooksLoadedMsg{Books: books, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case BooksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Library: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Library"
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if id, ok := m.SelectedBookID(); ok {
			cmds = append(cmds, m.loadDetailCmd(id))
		} else {
			m.detail = libdto.BookDetailOutput{}
			m.preview.SetContent(m.renderDetail())
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if id, ok := m.SelectedBookID(); ok {
				cmds = append(cmds, m.loadDetailCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading library…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedBookID() (string, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.ID, true
	}
	return "", false
}

func (m Model) SelectedBookTitle() string {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.Title
	}
	return ""
}

// Filtering reports whether the list's search filter is open, so global keys must yield.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 0)
	m.preview.Height = max(m.height-4, 0)
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Add a book with `chapterly book add` or `book lookup`")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Title) + "\n")
	if d.Author != "" {
		sb.WriteString(d.Author + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Muted.Render("status:  ") + d.StatusLabel + "\n")
	sb.WriteString(theme.Muted.Render("genre:   ") + d.Genre + "\n")
	sb.WriteString(fmt.Sprintf("%s%.2fh\n", theme.Muted.Render("read:    "), d.TotalReadingTime))
	sb.WriteString(theme.Muted.Render("added:   ") + humanize.Time(d.DateAdded) + "\n")
	if d.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("pages:   "), d.PageCount))
	}
	if d.Rating > 0 {
		sb.WriteString(theme.Muted.Render("rating:  ") + strings.Repeat("★", d.Rating) + strings.Repeat("☆", 5-d.Rating) + "\n")
	}
	if d.Mood != "" {
		sb.WriteString(theme.Muted.Render("mood:    ") + d.Mood + "\n")
	}
	if d.Narrator != "" {
		sb.WriteString(theme.Muted.Render("voice:   ") + d.Narrator + "\n")
	}
	if d.Description != "" {
		sb.WriteString("\n" + d.Description + "\n")
	}
	if d.Notes != "" {
		sb.WriteString("\n" + theme.Muted.Render("notes: ") + d.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start timing this book"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetBook(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
