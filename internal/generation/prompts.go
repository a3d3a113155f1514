package generation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/phrazzld/traffic-tasker/internal/domain"
)

// Template file names, both embedded and in an override directory.
const (
	ClassifyTemplate  = "classify.tmpl"
	SummarizeTemplate = "summarize.tmpl"
)

//go:embed prompts/*.tmpl
var defaultPrompts embed.FS

// classifyData represents the data passed to the classify template
type classifyData struct {
	Title       string
	Description string
}

// summarizeData represents the data passed to the summarize template
type summarizeData struct {
	TasksJSON string
	Count     int
}

// Prompts renders the two prompt templates.
type Prompts struct {
	classify  *template.Template
	summarize *template.Template
}

// DefaultPrompts returns the embedded templates.
func DefaultPrompts() *Prompts {
	return &Prompts{
		classify:  template.Must(template.ParseFS(defaultPrompts, "prompts/"+ClassifyTemplate)),
		summarize: template.Must(template.ParseFS(defaultPrompts, "prompts/"+SummarizeTemplate)),
	}
}

// LoadPrompts returns the embedded templates, replacing each one that exists
// in dir. An empty dir means no overrides.
func LoadPrompts(dir string) (*Prompts, error) {
	p := DefaultPrompts()
	if dir == "" {
		return p, nil
	}

	for name, slot := range map[string]**template.Template{
		ClassifyTemplate:  &p.classify,
		SummarizeTemplate: &p.summarize,
	} {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				ErrInvalidConfig, path, err)
		}
		tmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse prompt template %s: %v",
				ErrInvalidConfig, path, err)
		}
		*slot = tmpl
	}
	return p, nil
}

// Classify renders the classification prompt for one task.
func (p *Prompts) Classify(title, description string) (string, error) {
	var buf bytes.Buffer
	if err := p.classify.Execute(&buf, classifyData{Title: title, Description: description}); err != nil {
		return "", fmt.Errorf("failed to execute classify template: %w", err)
	}
	return buf.String(), nil
}

// Summarize renders the advisory prompt, embedding tasks as JSON.
func (p *Prompts) Summarize(tasks []domain.Task) (string, error) {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}

	var buf bytes.Buffer
	data := summarizeData{TasksJSON: string(raw), Count: len(tasks)}
	if err := p.summarize.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute summarize template: %w", err)
	}
	return buf.String(), nil
}
