package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/lore/internal/theme"
)

// PromptResultMsg is sent when the prompt is confirmed.
type PromptResultMsg struct {
	Value string
}

// PromptCancelledMsg is sent when the prompt is dismissed.
type PromptCancelledMsg struct{}

// Prompt is a centered overlay text input dialog. In read-only mode it shows
// a value for manual copying and any key dismisses it.
type Prompt struct {
	input    textinput.Model
	title    string
	width    int
	height   int
	visible  bool
	readOnly bool
	theme    *theme.Theme
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 40
	ti.Focus()

	return Prompt{input: ti}
}

func (p *Prompt) SetTheme(th *theme.Theme) { p.theme = th }

func (p *Prompt) Show(title, placeholder string) {
	p.visible = true
	p.readOnly = false
	p.title = title
	p.input.Placeholder = placeholder
	p.input.SetValue("")
	p.input.Focus()
}

// ShowText displays value read-only under title.
func (p *Prompt) ShowText(title, value string) {
	p.visible = true
	p.readOnly = true
	p.title = title
	p.input.Placeholder = ""
	p.input.SetValue(value)
	p.input.CursorStart()
	p.input.Blur()
}

func (p *Prompt) Hide() {
	p.visible = false
	p.input.Blur()
}

func (p Prompt) Visible() bool {
	return p.visible
}

// Value returns the current input text.
func (p Prompt) Value() string {
	return p.input.Value()
}

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if !p.visible {
		return p, nil
	}

	if p.readOnly {
		if _, ok := msg.(tea.KeyMsg); ok {
			p.visible = false
			return p, func() tea.Msg { return PromptCancelledMsg{} }
		}
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(p.input.Value())
			p.visible = false
			if value == "" {
				return p, func() tea.Msg { return PromptCancelledMsg{} }
			}
			return p, func() tea.Msg { return PromptResultMsg{Value: value} }

		case "esc", "ctrl+c":
			p.visible = false
			return p, func() tea.Msg { return PromptCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Prompt) View() string {
	if !p.visible {
		return ""
	}
	th := p.theme

	width := p.width
	if width == 0 {
		width = 60
	}
	innerWidth := width - 6

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(innerWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)

	dimStyle := lipgloss.NewStyle().
		Foreground(th.Dim)

	hint := "Enter to confirm, Esc to cancel"
	if p.readOnly {
		hint = "Select and copy manually, any key to close"
	}

	var lines []string
	lines = append(lines, titleStyle.Render(p.title))
	if p.readOnly {
		lines = append(lines, lipgloss.NewStyle().Foreground(th.Code).Width(innerWidth-2).Render(p.input.Value()))
	} else {
		lines = append(lines, p.input.View())
	}
	lines = append(lines, "")
	lines = append(lines, dimStyle.Render(hint))

	content := strings.Join(lines, "\n")
	return borderStyle.Render(content)
}

func (p *Prompt) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = width/2 - 8
}
