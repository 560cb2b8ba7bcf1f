package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/symbolscape/symbolscape/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// OptionsModel - Interactive layout option selection
// =============================================================================

// optionStep is one choice screen in the picker.
type optionStep struct {
	title   string
	choices []string
	cursor  int
}

// OptionsModel is the bubbletea model for interactive layout option
// selection: orientation, grouping mode, and edge bundling, one screen each.
type OptionsModel struct {
	steps    []optionStep
	step     int
	Done     bool
	Aborted  bool
	selected []string
}

// NewOptionsModel creates a picker pre-positioned on the given options.
func NewOptionsModel(opts pipeline.Options) OptionsModel {
	m := OptionsModel{
		steps: []optionStep{
			{title: "Orientation", choices: []string{"horizontal", "vertical"}},
			{title: "Grouping", choices: []string{"none", "namespace", "file"}},
			{title: "Bundle edges", choices: []string{"yes", "no"}},
		},
	}
	m.steps[0].cursor = indexOf(m.steps[0].choices, opts.Orientation)
	m.steps[1].cursor = indexOf(m.steps[1].choices, opts.GroupingMode)
	if !opts.BundleEdges {
		m.steps[2].cursor = 1
	}
	return m
}

func indexOf(choices []string, v string) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return 0
}

func (m OptionsModel) Init() tea.Cmd {
	return nil
}

func (m OptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	step := &m.steps[m.step]
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Aborted = true
		return m, tea.Quit
	case "up", "k":
		if step.cursor > 0 {
			step.cursor--
		}
	case "down", "j":
		if step.cursor < len(step.choices)-1 {
			step.cursor++
		}
	case "enter":
		m.selected = append(m.selected, step.choices[step.cursor])
		if m.step == len(m.steps)-1 {
			m.Done = true
			return m, tea.Quit
		}
		m.step++
	}
	return m, nil
}

func (m OptionsModel) View() string {
	var b strings.Builder

	step := m.steps[m.step]
	b.WriteString(StyleTitle.Render(step.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, choice := range step.choices {
		cursor := "  "
		style := listNormalStyle
		if i == step.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(choice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("step %d of %d", m.step+1, len(m.steps))))
	b.WriteString("\n")

	return b.String()
}

// pickLayoutOptions runs the interactive picker and folds the selections
// back into the options. The second return is false when the user aborted.
func pickLayoutOptions(opts pipeline.Options) (pipeline.Options, bool, error) {
	opts.SetLayoutDefaults()

	p := tea.NewProgram(NewOptionsModel(opts))
	final, err := p.Run()
	if err != nil {
		return opts, false, fmt.Errorf("run option picker: %w", err)
	}

	m, ok := final.(OptionsModel)
	if !ok || !m.Done {
		return opts, false, nil
	}

	opts.Orientation = m.selected[0]
	opts.GroupingMode = m.selected[1]
	opts.BundleEdges = m.selected[2] == "yes"
	return opts, true, nil
}
