package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompt reads one line of free text, used for the "Custom" menu entries
type Prompt struct {
	title     string
	input     textinput.Model
	validate  func(string) error
	err       error
	value     string
	submitted bool
	aborted   bool
}

// NewPrompt creates a prompt. An empty answer is replaced by def, and
// validate (optional) must accept the answer before the prompt quits.
func NewPrompt(title, def string, validate func(string) error) *Prompt {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = StylePrompt
	ti.Placeholder = def
	ti.CharLimit = 4096
	ti.Focus()

	return &Prompt{
		title:    title,
		input:    ti,
		validate: validate,
	}
}

func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

func (p *Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := strings.TrimSpace(p.input.Value())
			if value == "" {
				value = p.input.Placeholder
			}
			if value == "" {
				return p, nil
			}
			if p.validate != nil {
				if err := p.validate(value); err != nil {
					p.err = err
					return p, nil
				}
			}
			p.value = value
			p.submitted = true
			return p, tea.Quit
		case "esc", "ctrl+c":
			p.aborted = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.err = nil
	return p, cmd
}

func (p *Prompt) View() string {
	if p.submitted || p.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("(custom) " + p.title))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")
	if p.err != nil {
		b.WriteString(CreateStatus(p.err.Error(), "error"))
		b.WriteString("\n")
	}
	b.WriteString(CreateHelp("enter confirm", "esc cancel"))
	return b.String()
}

// Value returns the accepted answer once the prompt was submitted
func (p *Prompt) Value() (string, bool) {
	return p.value, p.submitted
}

func (p *Prompt) Aborted() bool {
	return p.aborted
}
