// Where: internal/scaffold/scaffold_test.go
// What: Tests for project scaffolding.
package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tracekit-dev/agentbox/internal/config"
)

func TestWriteAllCreatesFiles(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteAll(dir, Data{Project: "demo", Image: "demo-agents"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 files, got %v", written)
	}

	payload, err := os.ReadFile(filepath.Join(dir, "agentbox.yml"))
	if err != nil {
		t.Fatalf("read agentbox.yml: %v", err)
	}
	content := string(payload)
	if !strings.Contains(content, "image: demo-agents") {
		t.Fatalf("image not rendered:\n%s", content)
	}
	if !strings.Contains(content, "project: demo") {
		t.Fatalf("project not rendered:\n%s", content)
	}

	compose, err := os.ReadFile(filepath.Join(dir, "docker-compose.jaeger.yml"))
	if err != nil {
		t.Fatalf("read jaeger compose: %v", err)
	}
	if !strings.Contains(string(compose), "16686:16686") {
		t.Fatal("jaeger compose missing UI port")
	}
}

func TestWriteAllDefaultsImageViaSprig(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteAll(dir, Data{Project: "demo"}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, _ := os.ReadFile(filepath.Join(dir, "agentbox.yml"))
	if !strings.Contains(string(payload), "image: agentbox") {
		t.Fatalf("expected default image:\n%s", payload)
	}
}

func TestWriteAllSkipsExistingWithoutForce(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("image: handmade\n")
	if err := os.WriteFile(filepath.Join(dir, "agentbox.yml"), custom, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	written, err := WriteAll(dir, Data{Project: "demo"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range written {
		if name == "agentbox.yml" {
			t.Fatal("existing file must not be overwritten without force")
		}
	}

	payload, _ := os.ReadFile(filepath.Join(dir, "agentbox.yml"))
	if string(payload) != string(custom) {
		t.Fatal("existing file content changed")
	}
}

func TestWriteAllForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "agentbox.yml"), []byte("image: handmade\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	written, err := WriteAll(dir, Data{Project: "demo"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected all files rewritten, got %v", written)
	}
}

func TestScaffoldedConfigPassesSchemaValidation(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteAll(dir, Data{Project: "demo", Image: "demo-agents"}, false); err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	cfg, err := config.LoadProject(dir)
	if err != nil {
		t.Fatalf("scaffolded agentbox.yml failed validation: %v", err)
	}
	if cfg.Image != "demo-agents" {
		t.Fatalf("unexpected image: %s", cfg.Image)
	}
	if cfg.Services["jaeger"].HealthURL != "http://localhost:16686/" {
		t.Fatalf("unexpected jaeger health url: %s", cfg.Services["jaeger"].HealthURL)
	}
}
