package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/lore/internal/docs"
)

const defaultDocsInput = "~/docs"

// SetupResult is returned by RunSetup.
type SetupResult struct {
	DocsPath  string
	Cancelled bool
}

type setupModel struct {
	input   textinput.Model
	include []string
	err     string
	// confirmEmpty is the path the user was warned has no documents; a
	// second Enter on the same path accepts it.
	confirmEmpty string
	done         bool
	quit         bool
}

func newSetupModel(include []string) setupModel {
	ti := textinput.New()
	ti.Placeholder = defaultDocsInput
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return setupModel{input: ti, include: include}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			path := m.input.Value()
			if path == "" {
				path = defaultDocsInput
			}
			expanded := ExpandHome(path)

			if err := validateDocsPath(expanded); err != nil {
				m.err = err.Error()
				return m, nil
			}
			if m.confirmEmpty != expanded && countDocs(expanded, m.include) == 0 {
				m.confirmEmpty = expanded
				m.err = "no documents found there; press Enter again to use it anyway"
				return m, nil
			}

			m.input.SetValue(path)
			m.done = true
			return m, tea.Quit

		case "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}

	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Render("Welcome to lore")

	var s string
	s += "\n " + title + "\n\n"
	s += " Where is your documentation?\n\n"
	s += "   " + m.input.View() + "\n\n"

	if m.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		s += " " + errStyle.Render(m.err) + "\n\n"
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	s += " " + dim.Render("Press Enter to confirm, Esc to cancel") + "\n"

	return s
}

// validateDocsPath checks that path is an existing directory.
func validateDocsPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist", path)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func countDocs(path string, include []string) int {
	entries, err := docs.New(path, include).ListDocs()
	if err != nil {
		return 0
	}
	return len(entries)
}

// RunSetup runs the first-run TUI prompt and returns the chosen docs path.
func RunSetup(include []string) (SetupResult, error) {
	m := newSetupModel(include)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return SetupResult{}, err
	}

	fm, ok := final.(setupModel)
	if !ok {
		return SetupResult{}, fmt.Errorf("unexpected model type from setup wizard")
	}
	if fm.quit {
		return SetupResult{Cancelled: true}, nil
	}

	path := fm.input.Value()
	if path == "" {
		path = defaultDocsInput
	}
	expanded := ExpandHome(path)

	if err := SaveFile(expanded); err != nil {
		return SetupResult{}, fmt.Errorf("saving config: %w", err)
	}

	return SetupResult{DocsPath: expanded}, nil
}
