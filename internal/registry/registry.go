// Package registry holds the command template catalog, keyed by target
// operating system and command type.
//
// A Registry is assembled once with a Builder and is read-only afterwards.
// Template order inside a command type is insertion order; it drives the
// display order and decides which command lands on the clipboard.
package registry

import (
	"sort"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

type commandTable map[string][]models.Template

// Builder accumulates templates before freezing them into a Registry
type Builder struct {
	commands map[models.OperatingSystem]commandTable
}

// NewBuilder creates an empty builder for every supported operating system
func NewBuilder() *Builder {
	b := &Builder{commands: make(map[models.OperatingSystem]commandTable)}
	for _, os := range models.OperatingSystems {
		b.commands[os] = make(commandTable)
	}
	return b
}

// Add appends t to the list for (os, commandType). Duplicates are kept.
func (b *Builder) Add(os models.OperatingSystem, commandType string, t models.Template) error {
	table, ok := b.commands[os]
	if !ok {
		return errors.InvalidOperatingSystemError(string(os))
	}
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
	}
	table[commandType] = append(table[commandType], t)
	return nil
}

// MustAdd is Add for fixed catalogs, panicking on authoring mistakes
func (b *Builder) MustAdd(os models.OperatingSystem, commandType string, t models.Template) *Builder {
	if err := b.Add(os, commandType, t); err != nil {
		panic(err)
	}
	return b
}

// Build returns an immutable snapshot of the templates added so far
func (b *Builder) Build() *Registry {
	r := &Registry{commands: make(map[models.OperatingSystem]commandTable, len(b.commands))}
	for os, table := range b.commands {
		frozen := make(commandTable, len(table))
		for commandType, templates := range table {
			frozen[commandType] = append([]models.Template(nil), templates...)
		}
		r.commands[os] = frozen
	}
	return r
}

// Registry maps operating system → command type → ordered templates
type Registry struct {
	commands map[models.OperatingSystem]commandTable
}

// CommandTypes returns, sorted, every command type under os with at least
// one template supporting protocol. An empty result is not an error.
func (r *Registry) CommandTypes(os models.OperatingSystem, protocol models.Protocol) []string {
	var types []string
	for commandType, templates := range r.commands[os] {
		for _, t := range templates {
			if t.Supports(protocol) {
				types = append(types, commandType)
				break
			}
		}
	}
	sort.Strings(types)
	return types
}

// Commands returns the templates of (os, commandType) supporting protocol,
// in insertion order. An empty result is not an error.
func (r *Registry) Commands(os models.OperatingSystem, commandType string, protocol models.Protocol) []models.Template {
	var matched []models.Template
	for _, t := range r.commands[os][commandType] {
		if t.Supports(protocol) {
			matched = append(matched, t)
		}
	}
	return matched
}

// AllCommandTypes returns every command type registered under os, sorted
func (r *Registry) AllCommandTypes(os models.OperatingSystem) []string {
	types := make([]string, 0, len(r.commands[os]))
	for commandType := range r.commands[os] {
		types = append(types, commandType)
	}
	sort.Strings(types)
	return types
}

// Templates returns every template of (os, commandType) whatever its protocols
func (r *Registry) Templates(os models.OperatingSystem, commandType string) []models.Template {
	return append([]models.Template(nil), r.commands[os][commandType]...)
}
