package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"chapterly/internal/ui/theme"
)

const maxSuggestions = 6

// Command is one entry the palette can suggest.
type Command struct {
	Name string
	Args string
	Help string
}

// PaletteSubmitMsg carries the confirmed line, with the command name completed when the
// typed one was a fragment.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	suggestionStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle   = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

type commandNames []Command

func (c commandNames) String(i int) string { return c[i].Name }
func (c commandNames) Len() int            { return len(c) }

type Palette struct {
	commands []Command
	input    textinput.Model
	visible  bool
	width    int
	selected int
}

func NewPalette(commands []Command) Palette {
	ti := textinput.New()
	ti.Placeholder = "command"
	ti.CharLimit = 256
	return Palette{commands: commands, input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.selected = 0
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Matches ranks commands by fuzzy match on the first word typed. Everything matches
// an empty input.
func (p Palette) Matches() []Command {
	word, _ := split(p.input.Value())
	if word == "" {
		return p.commands
	}
	found := fuzzy.FindFrom(strings.ToLower(word), commandNames(p.commands))
	out := make([]Command, 0, len(found))
	for _, m := range found {
		out = append(out, p.commands[m.Index])
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := p.resolve()
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "tab":
			if cmd, ok := p.current(); ok {
				_, rest := split(p.input.Value())
				line := cmd.Name
				if rest != "" {
					line += " " + rest
				} else if cmd.Args != "" {
					line += " "
				}
				p.input.SetValue(line)
				p.input.CursorEnd()
				p.selected = 0
			}
			return p, nil
		case "up", "ctrl+p":
			p.selected = max(p.selected-1, 0)
			return p, nil
		case "down", "ctrl+n":
			p.selected = min(p.selected+1, max(min(len(p.Matches()), maxSuggestions)-1, 0))
			return p, nil
		}
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.selected = 0
	}
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) current() (Command, bool) {
	matches := p.Matches()
	if p.selected < len(matches) {
		return matches[p.selected], true
	}
	return Command{}, false
}

// resolve keeps a known command as typed and otherwise swaps in the highlighted match.
func (p Palette) resolve() string {
	line := strings.TrimSpace(p.input.Value())
	word, rest := split(line)
	for _, c := range p.commands {
		if c.Name == word {
			return line
		}
	}
	if cmd, ok := p.current(); ok && word != "" {
		return strings.TrimSpace(cmd.Name + " " + rest)
	}
	return line
}

func split(line string) (string, string) {
	line = strings.TrimLeft(line, " ")
	word, rest, _ := strings.Cut(line, " ")
	return word, strings.TrimSpace(rest)
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Commands") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")

	matches := p.Matches()
	if len(matches) == 0 {
		sb.WriteString("\n" + suggestionStyle.Render("  no matching command") + "\n")
	} else {
		sb.WriteString("\n")
	}
	for i, c := range matches {
		if i == maxSuggestions {
			sb.WriteString(suggestionStyle.Render(fmt.Sprintf("  +%d more", len(matches)-maxSuggestions)) + "\n")
			break
		}
		usage := strings.TrimSpace(c.Name + " " + c.Args)
		line := fmt.Sprintf("%-24s %s", usage, c.Help)
		if i == p.selected {
			sb.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			sb.WriteString(suggestionStyle.Render("  "+line) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
