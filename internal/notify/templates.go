package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var content embed.FS

// ChangesData is the data contract of the change notification template.
type ChangesData struct {
	ToName string
	// InboundRuleChanges is the pre-rendered list produced by Aggregate.
	InboundRuleChanges template.HTML
	ProxyURL           string
}

// ErrorData is the data contract of the error notification template.
type ErrorData struct {
	ToName     string
	StatusCode int
}

// Templates holds the parsed notification templates.
type Templates struct {
	changes *template.Template
	error   *template.Template
}

// LoadTemplates parses the embedded notification templates.
func LoadTemplates() (*Templates, error) {
	changes, err := template.ParseFS(content, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	errTmpl, err := template.ParseFS(content, "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parsing error template: %w", err)
	}
	return &Templates{changes: changes, error: errTmpl}, nil
}

// RenderChanges renders the change notification body.
func (t *Templates) RenderChanges(data ChangesData) (string, error) {
	var buf bytes.Buffer
	if err := t.changes.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering index template: %w", err)
	}
	return buf.String(), nil
}

// RenderError renders the error notification body.
func (t *Templates) RenderError(data ErrorData) (string, error) {
	var buf bytes.Buffer
	if err := t.error.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering error template: %w", err)
	}
	return buf.String(), nil
}
