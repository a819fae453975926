package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

// routineInfo describes the prompts of one routine.
type routineInfo struct {
	name   string
	symbol string
	params []paramInfo
}

type paramInfo struct {
	name    string
	typeStr string
}

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	caller   *runtime.Caller
	result   string
	routines []routineInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(rt *runtime.Runtime, caller *runtime.Caller) *interactiveModel {
	m := &interactiveModel{rt: rt, caller: caller, state: stateSelectFunc}
	for _, r := range mangle.Routines() {
		alias, _ := rt.Engine().Table().Alias(r.Name, rt.Scheme())
		m.routines = append(m.routines, routineInfo{
			name:   r.Name,
			symbol: alias,
			params: promptsFor(r.Name),
		})
	}
	return m
}

func promptsFor(routine string) []paramInfo {
	switch routine {
	case mangle.Pr:
		return []paramInfo{{"procid", "int32"}}
	case mangle.SetOption:
		return []paramInfo{{"option", "name|int32"}, {"val", "int32"}}
	case mangle.Start, mangle.Stop:
		return []paramInfo{{"name", "string"}}
	}
	return nil
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.routines)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callRoutine
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.callRoutine

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	r := m.routines[m.selected]
	m.inputs = make([]textinput.Model, len(r.params))
	for i, p := range r.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// buildStep turns the selected routine and its inputs into a script step.
func (m *interactiveModel) buildStep() (step, error) {
	r := m.routines[m.selected]
	args := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		args[i] = in.Value()
	}

	switch r.name {
	case mangle.Initialize:
		return step{op: "init"}, nil
	case mangle.Reset:
		return step{op: "reset"}, nil
	case mangle.Stamp:
		return step{op: "stamp"}, nil
	case mangle.Pr:
		n, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 32)
		if err != nil {
			return step{}, err
		}
		return step{op: "pr", a: int32(n)}, nil
	case mangle.SetOption:
		opt, err := parseOption(strings.TrimSpace(args[0]))
		if err != nil {
			return step{}, err
		}
		val, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 32)
		if err != nil {
			return step{}, err
		}
		return step{op: "setoption", a: int32(opt), b: int32(val)}, nil
	case mangle.Start:
		return step{op: "start", name: args[0]}, nil
	case mangle.Stop:
		return step{op: "stop", name: args[0]}, nil
	}
	return step{}, fmt.Errorf("unknown routine %s", r.name)
}

func (m *interactiveModel) callRoutine() tea.Msg {
	s, err := m.buildStep()
	if err != nil {
		return callResultMsg{err: err}
	}
	out, err := s.exec(context.Background(), m.caller)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: out}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gptshim"))
	b.WriteString(fmt.Sprintf(" module %s, scheme %s\n\n", m.rt.Module(), m.rt.Scheme()))

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a routine to call:\n\n")
		for i, r := range m.routines {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatRoutine(r)))
			} else {
				b.WriteString("  " + m.formatRoutine(r))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		r := m.routines[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(r.symbol)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(r.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		r := m.routines[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(r.symbol)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatRoutine(r routineInfo) string {
	var params []string
	for _, p := range r.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := " -> " + typeStyle.Render("int32")
	if r.name == mangle.Reset {
		result = ""
	}
	return funcStyle.Render(r.symbol) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(rt *runtime.Runtime, caller *runtime.Caller) error {
	p := tea.NewProgram(newInteractiveModel(rt, caller), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
