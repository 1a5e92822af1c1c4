// Package prompt collects a new release prerequisite from the operator.
//
// The form is a bubbletea model with three text inputs. Enter moves to the
// next field and submits on the last one; Esc or Ctrl+C aborts.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
)

const (
	fieldBug = iota
	fieldDescription
	fieldDeadline
	fieldCount
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var labels = [fieldCount]string{"Bug", "Description", "Deadline"}

// Model is the prerequisite form.
type Model struct {
	title   string
	today   string
	inputs  [fieldCount]textinput.Model
	focus   int
	err     string
	done    bool
	aborted bool
	result  lifecycle.Prerequisite
}

// NewModel returns a form titled for the given release. today is the
// default deadline.
func NewModel(title, today string) Model {
	m := Model{title: title, today: today}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.Width = 60
		m.inputs[i] = in
	}
	m.inputs[fieldBug].Placeholder = lifecycle.NoBug
	m.inputs[fieldDescription].Placeholder = "what has to happen"
	m.inputs[fieldDeadline].Placeholder = today
	m.inputs[fieldBug].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyShiftTab, tea.KeyUp:
		return m.moveFocus(m.focus - 1), textinput.Blink
	case tea.KeyTab, tea.KeyDown:
		return m.moveFocus(m.focus + 1), textinput.Blink
	case tea.KeyEnter:
		if m.focus < fieldDeadline {
			return m.moveFocus(m.focus + 1), textinput.Blink
		}
		p, err := Complete(m.value(fieldBug), m.value(fieldDescription), m.value(fieldDeadline), m.today)
		if err != nil {
			m.err = errorMessage(err)
			if strings.TrimSpace(m.value(fieldDescription)) == "" {
				m = m.moveFocus(fieldDescription)
			}
			return m, nil
		}
		m.result = p
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) moveFocus(to int) Model {
	if to < 0 {
		to = fieldCount - 1
	}
	if to >= fieldCount {
		to = 0
	}
	m.inputs[m.focus].Blur()
	m.focus = to
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) value(field int) string {
	return m.inputs[field].Value()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i := range m.inputs {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(labelStyle.Render(labels[i] + ": "))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter: next/submit  tab: move  esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the submitted prerequisite, or E_ABORTED when the form was
// cancelled or never submitted.
func (m Model) Result() (lifecycle.Prerequisite, error) {
	if m.aborted || !m.done {
		return lifecycle.Prerequisite{}, errors.New(errors.EAborted, "prerequisite entry cancelled")
	}
	return m.result, nil
}

// Complete applies defaults and validation to raw field values. A blank bug
// becomes "no bug" and a blank deadline becomes today. The description is
// required. The deadline is free text such as "2026-04-01" or "before GTB".
func Complete(bug, description, deadline, today string) (lifecycle.Prerequisite, error) {
	bug = strings.TrimSpace(bug)
	description = strings.TrimSpace(description)
	deadline = strings.TrimSpace(deadline)

	if bug == "" {
		bug = lifecycle.NoBug
	}
	if description == "" {
		return lifecycle.Prerequisite{}, errors.New(errors.EUsage, "prerequisite description is required")
	}
	if deadline == "" {
		deadline = today
	}
	return lifecycle.Prerequisite{Bug: bug, Description: description, Deadline: deadline}, nil
}

func errorMessage(err error) string {
	if e, ok := errors.AsError(err); ok {
		return e.Msg
	}
	return err.Error()
}
