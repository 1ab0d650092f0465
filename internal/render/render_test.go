package render

import (
	"strings"
	"testing"

	"github.com/ignite/outreach-engine/internal/domain"
)

func TestRenderSubstitutesRecipientFields(t *testing.T) {
	r := NewRenderer()
	msg, err := r.Render(&domain.Template{
		Subject: "Quick question, {{Name}}",
		Body:    "I came across {{Company}} ({{Website}}) and wanted to reach {{Email}}.",
	}, &domain.Recipient{
		Name: "Ana", Company: "Acme", Website: "acme.example", Email: "ana@acme.example",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if msg.Subject != "Quick question, Ana" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Acme (acme.example)") {
		t.Errorf("body = %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "ana@acme.example") {
		t.Errorf("body = %q", msg.Body)
	}
}

func TestRenderDefaultFilter(t *testing.T) {
	r := NewRenderer()
	msg, err := r.Render(&domain.Template{
		Subject: `Hi {{Name | default: "there"}}`,
		Body:    "x",
	}, &domain.Recipient{Name: ""})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if msg.Subject != "Hi there" {
		t.Errorf("subject = %q, want fallback applied", msg.Subject)
	}

	msg, err = r.Render(&domain.Template{
		Subject: `Hi {{Name | default: "there"}}`,
		Body:    "x",
	}, &domain.Recipient{Name: "Ana"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if msg.Subject != "Hi Ana" {
		t.Errorf("subject = %q, want real name kept", msg.Subject)
	}
}

func TestRenderMissingVariableIsEmpty(t *testing.T) {
	r := NewRenderer()
	msg, err := r.Render(&domain.Template{Subject: "[{{Unknown}}]", Body: "x"},
		&domain.Recipient{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if msg.Subject != "[]" {
		t.Errorf("subject = %q, want empty substitution", msg.Subject)
	}
}

func TestRenderBrokenTemplateErrors(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(&domain.Template{Subject: "{% if %}", Body: "x"},
		&domain.Recipient{}); err == nil {
		t.Error("broken subject template rendered without error")
	}
	if _, err := r.Render(&domain.Template{Subject: "ok", Body: "{% endfor %}"},
		&domain.Recipient{}); err == nil {
		t.Error("broken body template rendered without error")
	}
}

func TestRenderCachesParsedTemplates(t *testing.T) {
	r := NewRenderer()
	tmpl := &domain.Template{Subject: "Hi {{Name}}", Body: "b"}

	if _, err := r.Render(tmpl, &domain.Recipient{Name: "Ana"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := r.cache.Load(tmpl.Subject); !ok {
		t.Error("parsed subject not cached")
	}

	msg, err := r.Render(tmpl, &domain.Recipient{Name: "Bo"})
	if err != nil {
		t.Fatalf("Render from cache: %v", err)
	}
	if msg.Subject != "Hi Bo" {
		t.Errorf("cached template rendered stale bindings: %q", msg.Subject)
	}
}
