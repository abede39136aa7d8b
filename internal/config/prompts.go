package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"go.yaml.in/yaml/v3"
)

const defaultPromptsPath = "configs/prompts.yaml"

type PromptsConfig struct {
	System  string      `yaml:"system"`
	Answer  string      `yaml:"answer"`
	Rewrite string      `yaml:"rewrite"`
	Model   ModelConfig `yaml:"model"`
}

type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

const defaultSystem = `You answer questions about space biology publications.
Use only the numbered sources you are given and cite them as [n].
If the sources do not contain the answer, say so.`

const defaultAnswer = `Sources:
{{range .Passages}}[{{.Index}}] {{.Title}} ({{.Link}})
{{.Content}}

{{end}}Question: {{.Question}}`

const defaultRewrite = `Rewrite this question so it works well as a search query over scientific publications.
Fix typos and expand abbreviations. Return ONLY the rewritten query.

Question: {{.Question}}`

// DefaultPrompts is used when no prompts file exists.
func DefaultPrompts() *PromptsConfig {
	return &PromptsConfig{
		System:  defaultSystem,
		Answer:  defaultAnswer,
		Rewrite: defaultRewrite,
		Model: ModelConfig{
			MaxTokens:   1024,
			Temperature: 0.2,
		},
	}
}

// LoadPromptsConfig reads PROMPTS_CONFIG_PATH (default configs/prompts.yaml).
// A missing file yields the defaults; fields left empty in the file keep
// their default value.
func LoadPromptsConfig() (*PromptsConfig, error) {
	path := os.Getenv("PROMPTS_CONFIG_PATH")
	if path == "" {
		path = defaultPromptsPath
	}

	cfg := DefaultPrompts()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts config %s: %w", path, err)
	}

	var file struct {
		Prompts PromptsConfig `yaml:"prompts"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompts config %s: %w", path, err)
	}

	applyOverrides(cfg, &file.Prompts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg, file *PromptsConfig) {
	if file.System != "" {
		cfg.System = file.System
	}
	if file.Answer != "" {
		cfg.Answer = file.Answer
	}
	if file.Rewrite != "" {
		cfg.Rewrite = file.Rewrite
	}
	if file.Model.MaxTokens != 0 {
		cfg.Model.MaxTokens = file.Model.MaxTokens
	}
	if file.Model.Temperature != 0 {
		cfg.Model.Temperature = file.Model.Temperature
	}
}

func (p *PromptsConfig) Validate() error {
	for name, text := range map[string]string{"answer": p.Answer, "rewrite": p.Rewrite} {
		if _, err := template.New(name).Parse(text); err != nil {
			return fmt.Errorf("invalid %s prompt: %w", name, err)
		}
	}
	if p.Model.MaxTokens <= 0 || p.Model.MaxTokens > 100000 {
		return fmt.Errorf("invalid max_tokens %d", p.Model.MaxTokens)
	}
	if p.Model.Temperature < 0 || p.Model.Temperature > 1 {
		return fmt.Errorf("invalid temperature %.2f", p.Model.Temperature)
	}
	return nil
}
