package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	validate    textinput.ValidateFunc
}

// form is a column of text inputs followed by a submit button. onSubmit
// receives the input values in field order.
type form struct {
	title      string
	labels     []string
	validators []textinput.ValidateFunc
	txtInputs  []textinput.Model
	focusIndex int
	onSubmit   func(values []string) (string, error)
	err        error
}

func newForm(title string, fields []field, onSubmit func(values []string) (string, error)) *form {
	f := &form{
		title:    title,
		onSubmit: onSubmit,
	}
	for i, fd := range fields {
		in := textinput.New()
		in.Prompt = "-> "
		in.Placeholder = fd.placeholder
		in.Width = 60
		in.Validate = fd.validate
		if i == 0 {
			in.Focus()
		}
		f.labels = append(f.labels, fd.label)
		f.validators = append(f.validators, fd.validate)
		f.txtInputs = append(f.txtInputs, in)
	}
	return f
}

func (f *form) submitFocused() bool {
	return f.focusIndex == len(f.txtInputs)
}

func (f *form) values() []string {
	values := make([]string, len(f.txtInputs))
	for i, in := range f.txtInputs {
		values[i] = strings.TrimSpace(in.Value())
	}
	return values
}

// update handles one key press. It returns a status message once the form
// has been submitted successfully.
func (f *form) update(msg tea.KeyMsg) (tea.Cmd, string, bool) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "down", "tab":
		if f.focusIndex < len(f.txtInputs) {
			f.focusIndex++
		}
	case "up", "shift+tab":
		if f.focusIndex > 0 {
			f.focusIndex--
		}
	case "enter":
		if !f.submitFocused() {
			f.focusIndex++
			break
		}
		values := f.values()
		for i, validate := range f.validators {
			if validate == nil {
				continue
			}
			if err := validate(values[i]); err != nil {
				f.err = fmt.Errorf("%s: %w", f.labels[i], err)
				return nil, "", false
			}
		}
		status, err := f.onSubmit(values)
		if err != nil {
			f.err = err
			return nil, "", false
		}
		return nil, status, true
	default:
		if !f.submitFocused() {
			var cmd tea.Cmd
			f.txtInputs[f.focusIndex], cmd = f.txtInputs[f.focusIndex].Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	for i := range f.txtInputs {
		if i == f.focusIndex {
			cmds = append(cmds, f.txtInputs[i].Focus())
		} else {
			f.txtInputs[i].Blur()
		}
	}

	f.err = nil
	for i, in := range f.txtInputs {
		if i != f.focusIndex && in.Err != nil && in.Value() != "" {
			f.err = fmt.Errorf("%s: %w", f.labels[i], in.Err)
		}
	}

	return tea.Batch(cmds...), "", false
}

func (f *form) View() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("~~ %s ~~\n", f.title))
	if f.err != nil {
		sb.WriteString(errorStyle.Render(f.err.Error()))
	}
	sb.WriteString("\n\n")

	for i, in := range f.txtInputs {
		sb.WriteString(inputStyle.Render(f.labels[i]) + "\n")
		sb.WriteString(in.View() + "\n\n")
	}

	button := " Submit "
	if f.submitFocused() {
		button = buttonFocusedStyle.Render(button)
	} else {
		button = buttonStyle.Render(button)
	}
	sb.WriteString(button + "\n\n")
	sb.WriteString(helpStyle.Render("Press Esc to go back."))
	return sb.String()
}
