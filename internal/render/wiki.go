// Package render turns release state documents into wiki markdown and
// formats command output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/scaffold"
)

// TemplateNamer picks the wiki template for a release.
type TemplateNamer interface {
	WikiTemplate(id core.Identity) string
}

// Renderer renders wiki documents from release state documents.
type Renderer struct {
	Source scaffold.Source
	Names  TemplateNamer
}

// NewRenderer creates a Renderer reading templates from src.
func NewRenderer(src scaffold.Source, names TemplateNamer) *Renderer {
	return &Renderer{Source: src, Names: names}
}

// Render executes the wiki template for id against the JSON document data.
// The document is decoded generically so templates see exactly the stored
// keys; referencing a key that is not there fails with E_RENDER_FAILED.
func (r *Renderer) Render(id core.Identity, data []byte) (string, error) {
	name := r.Names.WikiTemplate(id)
	details := map[string]string{"release": id.Slug(), "template": name}

	src, err := r.Source.Read(name)
	if err != nil {
		return "", errors.WithDetails(err, details)
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(string(src))
	if err != nil {
		return "", errors.WrapWithDetails(errors.ERenderFailed, "invalid wiki template: "+err.Error(), err, details)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return "", errors.WrapWithDetails(errors.ERenderFailed, "release document is not a JSON object", err, details)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", errors.WrapWithDetails(errors.ERenderFailed, "failed to render wiki: "+err.Error(), err, details)
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"join": func(items []any, sep string) string {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	},
}
