package ui

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// DefaultWalkLimit caps how many files a search entry collects
const DefaultWalkLimit = 20000

const finderVisible = 10

// WalkFiles returns up to limit regular files below root as slash separated
// paths relative to root. Hidden directories are not entered.
func WalkFiles(root string, limit int) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// unreadable subtree
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		if limit > 0 && len(files) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Finder narrows a file list with fuzzy matching as the operator types
type Finder struct {
	title     string
	files     []string
	query     textinput.Model
	matches   []string
	selected  int
	offset    int
	submitted bool
	aborted   bool
}

func NewFinder(title string, files []string) *Finder {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = StylePrompt
	ti.Placeholder = "type to filter"
	ti.Focus()

	f := &Finder{
		title: title,
		files: files,
		query: ti,
	}
	f.filter()
	return f
}

func (f *Finder) Init() tea.Cmd {
	return textinput.Blink
}

func (f *Finder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "ctrl+p", "ctrl+k":
			if f.selected > 0 {
				f.selected--
			}
			f.scroll()
			return f, nil
		case "down", "ctrl+n", "ctrl+j":
			if f.selected < len(f.matches)-1 {
				f.selected++
			}
			f.scroll()
			return f, nil
		case "enter":
			if len(f.matches) == 0 {
				return f, nil
			}
			f.submitted = true
			return f, tea.Quit
		case "esc", "ctrl+c":
			f.aborted = true
			return f, tea.Quit
		}
	}

	before := f.query.Value()
	var cmd tea.Cmd
	f.query, cmd = f.query.Update(msg)
	if f.query.Value() != before {
		f.filter()
	}
	return f, cmd
}

// filter recomputes the matches, best score first
func (f *Finder) filter() {
	f.selected, f.offset = 0, 0

	pattern := strings.TrimSpace(f.query.Value())
	if pattern == "" {
		f.matches = f.files
		return
	}

	found := fuzzy.Find(pattern, f.files)
	f.matches = make([]string, len(found))
	for i, m := range found {
		f.matches[i] = m.Str
	}
}

func (f *Finder) scroll() {
	if f.selected < f.offset {
		f.offset = f.selected
	}
	if f.selected >= f.offset+finderVisible {
		f.offset = f.selected - finderVisible + 1
	}
}

func (f *Finder) View() string {
	if f.submitted || f.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(f.title))
	b.WriteString("\n")
	b.WriteString(f.query.View())
	b.WriteString("\n")

	if len(f.matches) == 0 {
		b.WriteString(StyleTextMuted.Render("  no matching files"))
		b.WriteString("\n")
	}
	end := f.offset + finderVisible
	if end > len(f.matches) {
		end = len(f.matches)
	}
	for i := f.offset; i < end; i++ {
		for _, line := range CreateOption(f.matches[i], "", i == f.selected) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(CreateHelp("↑/↓ move", "enter select", "esc back", fmt.Sprintf("%d/%d", len(f.matches), len(f.files))))
	return b.String()
}

// Selected returns the chosen relative path once the finder was submitted
func (f *Finder) Selected() (string, bool) {
	if !f.submitted || f.selected >= len(f.matches) {
		return "", false
	}
	return f.matches[f.selected], true
}

func (f *Finder) Aborted() bool {
	return f.aborted
}

// Matches returns the current filtered list
func (f *Finder) Matches() []string {
	return f.matches
}
