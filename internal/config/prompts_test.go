package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePrompts(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("PROMPTS_CONFIG_PATH", path)
}

func TestLoadPromptsConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PROMPTS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig() failed: %v", err)
	}

	if cfg.Answer != defaultAnswer || cfg.System != defaultSystem {
		t.Error("Expected default prompts")
	}
	if cfg.Model.MaxTokens != 1024 {
		t.Errorf("Expected default max_tokens=1024, got %d", cfg.Model.MaxTokens)
	}
}

func TestLoadPromptsConfig_Overrides(t *testing.T) {
	writePrompts(t, `prompts:
  system: "Be brief."
  model:
    max_tokens: 300
`)

	cfg, err := LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig() failed: %v", err)
	}

	if cfg.System != "Be brief." {
		t.Errorf("Expected system override, got %q", cfg.System)
	}
	if cfg.Model.MaxTokens != 300 {
		t.Errorf("Expected max_tokens=300, got %d", cfg.Model.MaxTokens)
	}
	if cfg.Answer != defaultAnswer {
		t.Error("Expected answer prompt to keep its default")
	}
	if cfg.Model.Temperature != 0.2 {
		t.Errorf("Expected default temperature=0.2, got %f", cfg.Model.Temperature)
	}
}

func TestLoadPromptsConfig_InvalidTemplate(t *testing.T) {
	writePrompts(t, `prompts:
  answer: "{{.Question"
`)

	_, err := LoadPromptsConfig()
	if err == nil || !strings.Contains(err.Error(), "invalid answer prompt") {
		t.Errorf("Expected invalid template error, got %v", err)
	}
}

func TestLoadPromptsConfig_InvalidYAML(t *testing.T) {
	writePrompts(t, "prompts: [unclosed")

	if _, err := LoadPromptsConfig(); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoadPromptsConfig_RepositoryFile(t *testing.T) {
	t.Setenv("PROMPTS_CONFIG_PATH", filepath.Join("..", "..", "configs", "prompts.yaml"))

	cfg, err := LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig() failed: %v", err)
	}
	if !strings.Contains(cfg.Answer, "{{.Question}}") {
		t.Error("Expected the answer prompt to reference the question")
	}
}
