package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStagesCommandListsRegistry(t *testing.T) {
	out, err := runCommand(t, "stages")
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	for _, id := range []string{"setup", "content-strategy", "article-generation", "quality-assurance"} {
		if !strings.Contains(out, id) {
			t.Errorf("output missing stage %s:\n%s", id, out)
		}
	}
}

func TestStagesCommandJSON(t *testing.T) {
	out, err := runCommand(t, "stages", "--json")
	if err != nil {
		t.Fatalf("stages --json: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(decoded) != 10 {
		t.Errorf("stages = %d, want 10", len(decoded))
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output should mention target path:\n%s", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[openai]") {
		t.Errorf("sample config missing openai section")
	}

	// A second init without --overwrite must refuse.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config")
	}
}

func TestEstimateCommandJSON(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath, "estimate", "--topic", "kubernetes costs", "--json")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var estimate struct {
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &estimate); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if estimate.Total != 1.30 {
		t.Errorf("total = %v, want 1.30", estimate.Total)
	}
}

func TestEstimateCommandRejectsMissingTopic(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", configPath, "estimate"); err == nil {
		t.Fatal("expected validation error without topics")
	}
}

func TestSessionsCommandEmpty(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(out, "no sessions") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusCommandUnknownSession(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", configPath, "status", "missing-id"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}
