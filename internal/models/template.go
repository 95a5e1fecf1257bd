package models

import (
	"fmt"
	"regexp"
)

// Placeholders understood by the renderer
const (
	PlaceholderLHost      = "{LHOST}"
	PlaceholderLPort      = "{LPORT}"
	PlaceholderInputFile  = "{INPUTFILE}"
	PlaceholderOutputFile = "{OUTPUTFILE}"
	PlaceholderProto      = "{PROTO}"
)

var placeholderPattern = regexp.MustCompile(`\{[A-Z]+\}`)

// Template represents a command line with placeholders and the protocols it works over
type Template struct {
	Name      string      `yaml:"name"`
	Body      string      `yaml:"body"`
	Notes     string      `yaml:"notes,omitempty"`
	Protocols ProtocolSet `yaml:"-"`
}

// NewTemplate creates a template valid for the given protocols
func NewTemplate(name, body, notes string, protocols ...Protocol) Template {
	return Template{
		Name:      name,
		Body:      body,
		Notes:     notes,
		Protocols: NewProtocolSet(protocols...),
	}
}

// Supports reports whether the template may be rendered for p
func (t Template) Supports(p Protocol) bool {
	return t.Protocols.Has(p)
}

// Validate checks the protocol set and the placeholders used in Body
func (t Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template has no name")
	}
	if t.Protocols.Len() == 0 {
		return fmt.Errorf("template %q supports no protocol", t.Name)
	}
	for _, p := range t.Protocols.List() {
		if !p.Templated() {
			return fmt.Errorf("template %q: protocol %s cannot be used in templates", t.Name, p)
		}
	}
	for _, ph := range placeholderPattern.FindAllString(t.Body, -1) {
		switch ph {
		case PlaceholderLHost, PlaceholderLPort, PlaceholderInputFile, PlaceholderOutputFile, PlaceholderProto:
		default:
			return fmt.Errorf("template %q: unknown placeholder %s", t.Name, ph)
		}
	}
	return nil
}

// Context carries the concrete values a template is rendered with
type Context struct {
	LHost      string
	LPort      string
	InputFile  string // base name only
	OutputFile string
	Protocol   Protocol
}
