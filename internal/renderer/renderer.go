package renderer

import (
	"strings"

	"github.com/dpshade/uberfile/internal/models"
)

// Rendered is a template turned into a literal command
type Rendered struct {
	Name    string
	Notes   string
	Command string
}

// Render substitutes ctx into t.Body. It has no side effects.
//
// For SCP only the four standard placeholders are replaced and a stray
// {PROTO} is left as is. For every other protocol {PROTO} is resolved to
// the lower-cased protocol name first.
func Render(t models.Template, ctx models.Context) string {
	body := t.Body
	if ctx.Protocol != models.ProtocolSCP {
		body = strings.ReplaceAll(body, models.PlaceholderProto, ctx.Protocol.Scheme())
	}
	return strings.NewReplacer(
		models.PlaceholderLHost, ctx.LHost,
		models.PlaceholderLPort, ctx.LPort,
		models.PlaceholderInputFile, ctx.InputFile,
		models.PlaceholderOutputFile, ctx.OutputFile,
	).Replace(body)
}

// Renderer renders templates for one session context
type Renderer struct {
	ctx   models.Context
	chmod bool
}

// NewRenderer creates a new renderer instance
func NewRenderer(ctx models.Context) *Renderer {
	return &Renderer{ctx: ctx}
}

// WithChmod makes every rendered command end with a chmod of the output file
func (r *Renderer) WithChmod(enabled bool) *Renderer {
	r.chmod = enabled
	return r
}

// RenderAll renders templates in order. Templates that do not support the
// context protocol are skipped.
func (r *Renderer) RenderAll(templates []models.Template) []Rendered {
	out := make([]Rendered, 0, len(templates))
	for _, t := range templates {
		if !t.Supports(r.ctx.Protocol) {
			continue
		}
		command := Render(t, r.ctx)
		if r.chmod {
			command = AppendChmod(command, r.ctx.OutputFile)
		}
		out = append(out, Rendered{
			Name:    t.Name,
			Notes:   t.Notes,
			Command: command,
		})
	}
	return out
}
