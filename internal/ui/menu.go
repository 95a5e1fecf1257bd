package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultVisible is how many options a menu shows before it scrolls
const defaultVisible = 12

// Option is one selectable menu entry
type Option struct {
	Label       string
	Description string
	Value       string
}

// Menu is a single-choice list. It quits on enter (submitted) or on
// esc, q and ctrl+c (aborted).
type Menu struct {
	title     string
	options   []Option
	selected  int
	offset    int
	visible   int
	submitted bool
	aborted   bool
}

func NewMenu(title string, options []Option) *Menu {
	return &Menu{
		title:   title,
		options: options,
		visible: defaultVisible,
	}
}

func (m *Menu) Init() tea.Cmd {
	return nil
}

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, help and a spare line
		if v := msg.Height - 4; v > 0 {
			m.visible = v
		}
		m.scroll()
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			} else {
				m.selected = len(m.options) - 1
			}
		case "down", "j":
			if m.selected < len(m.options)-1 {
				m.selected++
			} else {
				m.selected = 0
			}
		case "home", "g":
			m.selected = 0
		case "end", "G":
			m.selected = len(m.options) - 1
		case "enter":
			if len(m.options) == 0 {
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
		m.scroll()
	}
	return m, nil
}

// scroll keeps the selection inside the visible window
func (m *Menu) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.visible {
		m.offset = m.selected - m.visible + 1
	}
}

func (m *Menu) View() string {
	if m.submitted || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")

	end := m.offset + m.visible
	if end > len(m.options) {
		end = len(m.options)
	}
	for i := m.offset; i < end; i++ {
		opt := m.options[i]
		for _, line := range CreateOption(opt.Label, opt.Description, i == m.selected) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	help := []string{"↑/k up", "↓/j down", "enter select", "esc cancel"}
	if len(m.options) > m.visible {
		help = append(help, fmt.Sprintf("%d/%d", m.selected+1, len(m.options)))
	}
	b.WriteString(CreateHelp(help...))
	return b.String()
}

// Selected returns the chosen option once the menu was submitted
func (m *Menu) Selected() (Option, bool) {
	if !m.submitted || m.selected < 0 || m.selected >= len(m.options) {
		return Option{}, false
	}
	return m.options[m.selected], true
}

func (m *Menu) Aborted() bool {
	return m.aborted
}
