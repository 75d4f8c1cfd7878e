package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed defaults.yaml
var defaultsYAML []byte

type Prompts struct {
	System  SystemPrompts  `yaml:"system"`
	Content ContentPrompts `yaml:"content"`
}

type SystemPrompts struct {
	Content string `yaml:"content"`
}

type ContentPrompts struct {
	Structured string `yaml:"structured"`
}

type ContentParams struct {
	Topic      string
	Difficulty string
	Audience   string
}

// Load returns the embedded defaults, overridden by prompts.yaml when the
// file exists next to the binary.
func Load() (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(defaultsYAML, &p); err != nil {
		return nil, fmt.Errorf("failed to parse embedded prompts: %w", err)
	}

	data, err := os.ReadFile(defaultPromptsPath)
	if err != nil {
		return &p, nil
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	return &p, nil
}

func (p *Prompts) RenderContent(params ContentParams) (string, error) {
	return render(p.Content.Structured, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
