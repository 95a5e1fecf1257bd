package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/uberfile/internal/registry"
	"github.com/dpshade/uberfile/internal/renderer"
)

// DisplayCommands prints the rendered commands, numbered from 1, followed by
// the command line that reproduces the session without menus
func DisplayCommands(w io.Writer, commands []renderer.Rendered, cmdline string) {
	fmt.Fprintln(w)
	for i, c := range commands {
		label := fmt.Sprintf("[%d]", i+1)
		if c.Notes != "" {
			label += " " + c.Notes
		}
		fmt.Fprintf(w, "%s %s\n\n", StyleIndex.Render(label), c.Command)
	}
	fmt.Fprintln(w, StyleError.Render("CLI command used"))
	fmt.Fprintf(w, "%s\n\n", cmdline)
}

// PrintListing prints every command type grouped by operating system
func PrintListing(w io.Writer, listing []registry.OSListing) {
	for i, group := range listing {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, StyleIndex.Render(group.OS.Title()+" commands"))
		for _, commandType := range group.CommandTypes {
			fmt.Fprintf(w, "   - %s\n", commandType)
		}
	}
}

// Notice prints a one-line status message
func Notice(w io.Writer, text, statusType string) {
	fmt.Fprintln(w, CreateStatus(text, statusType))
}

// CatalogMarkdown describes every template of reg as markdown
func CatalogMarkdown(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString("# uberfile command catalog\n")

	for _, group := range reg.Listing() {
		fmt.Fprintf(&b, "\n## %s\n", group.OS.Title())
		for _, commandType := range group.CommandTypes {
			fmt.Fprintf(&b, "\n### %s\n", commandType)
			for _, t := range reg.Templates(group.OS, commandType) {
				fmt.Fprintf(&b, "\n**%s** (%s)", t.Name, t.Protocols)
				if t.Notes != "" {
					fmt.Fprintf(&b, ": _%s_", t.Notes)
				}
				fmt.Fprintf(&b, "\n\n```sh\n%s\n```\n", t.Body)
			}
		}
	}
	return b.String()
}

// RenderCatalog writes the catalog through glamour, or as plain markdown
// when the renderer cannot be built
func RenderCatalog(w io.Writer, reg *registry.Registry, wordWrap int) error {
	md := CatalogMarkdown(reg)

	r, err := createGlamourRenderer(wordWrap)
	if err != nil {
		_, werr := io.WriteString(w, md)
		return werr
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render catalog: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	var styleOption glamour.TermRendererOption
	switch termenv.ColorProfile() {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	case termenv.Ascii:
		styleOption = glamour.WithStandardStyle("notty")
	default:
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(wordWrap),
	)
}
