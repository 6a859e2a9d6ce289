// Package mailing renders notification subjects and bodies with the Liquid
// template language, so content changes are template edits rather than code
// changes.
package mailing

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"
)

// Renderer wraps a Liquid engine with template caching.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

func NewRenderer() *Renderer {
	engine := liquid.NewEngine()

	// Default value filter: {{ name | default: "the defendant" }}
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		if s, ok := value.(string); ok && s == "" {
			return defaultVal
		}
		return value
	})

	return &Renderer{engine: engine}
}

// Render parses (or reuses) the template source and renders it with the
// given bindings.
func (r *Renderer) Render(source string, bindings map[string]any) (string, error) {
	var tpl *liquid.Template
	if cached, ok := r.cache.Load(source); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := r.engine.ParseString(source)
		if err != nil {
			return "", fmt.Errorf("mailing: parse template: %w", err)
		}
		r.cache.Store(source, parsed)
		tpl = parsed
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("mailing: render template: %w", err)
	}
	return out, nil
}
