// Package render turns templates into concrete subjects and bodies using
// the Liquid template language. Rendering is pure: no I/O, no persistence.
package render

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Message is a rendered subject/body pair ready for the safety gate and
// transport.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Renderer renders templates against recipient data. Parsed templates are
// cached by their raw source, so re-rendering the same template for each
// recipient in a batch parses once.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer creates a renderer with the engine's standard filters plus a
// "default" fallback filter ({{ name | default: "there" }}).
func NewRenderer() *Renderer {
	engine := liquid.NewEngine()

	engine.RegisterFilter("default", func(value interface{}, fallback string) interface{} {
		if value == nil {
			return fallback
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return fallback
		}
		return value
	})

	return &Renderer{engine: engine}
}

// Render produces the subject and body for one recipient. Missing
// variables render as empty strings; a syntactically broken template is an
// error, since sending a half-rendered message is worse than skipping the
// campaign this run.
func (r *Renderer) Render(tmpl *domain.Template, recipient *domain.Recipient) (*Message, error) {
	bindings := map[string]interface{}{
		"Name":    recipient.Name,
		"Company": recipient.Company,
		"Email":   recipient.Email,
		"Website": recipient.Website,
	}

	subject, err := r.renderOne(tmpl.Subject, bindings)
	if err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	body, err := r.renderOne(tmpl.Body, bindings)
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}

	return &Message{Subject: subject, Body: body}, nil
}

func (r *Renderer) renderOne(source string, bindings map[string]interface{}) (string, error) {
	var t *liquid.Template
	if cached, ok := r.cache.Load(source); ok {
		t = cached.(*liquid.Template)
	} else {
		parsed, err := r.engine.ParseString(source)
		if err != nil {
			return "", err
		}
		r.cache.Store(source, parsed)
		t = parsed
	}

	out, err := t.Render(liquid.Bindings(bindings))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
