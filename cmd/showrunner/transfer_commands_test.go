package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/projects"
)

func TestExportWritesDefaultFile(t *testing.T) {
	env := setupCLITestEnv(t)
	seedProject(t, env, nil)

	out, _, err := runCLI(t, env, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	target := filepath.Join(env.cfg.Paths.ExportDir, projects.ExportFileName)
	requireContains(t, out, target)

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
}

func TestExportToExplicitPath(t *testing.T) {
	env := setupCLITestEnv(t)
	seedProject(t, env, nil)

	target := filepath.Join(env.baseDir, "backup.json")
	out, _, err := runCLI(t, env, "export", target)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected export file: %v", err)
	}
}

func TestImportReplacesDatabase(t *testing.T) {
	env := setupCLITestEnv(t)
	seedProject(t, env, nil)

	path := filepath.Join(env.baseDir, "import.json")
	doc := `[{"id": "imported-1", "name": "Imported Episode", "status": "completed"}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write import: %v", err)
	}

	out, _, err := runCLI(t, env, "import", "--yes", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 1 project(s)")

	store, err := projects.Open(env.cfg)
	if err != nil {
		t.Fatalf("projects.Open: %v", err)
	}
	defer store.Close()
	listed := store.Projects()
	if len(listed) != 1 || listed[0].ID != "imported-1" {
		t.Fatalf("expected replaced database, got %#v", listed)
	}
}

func TestImportCancelledAtPrompt(t *testing.T) {
	env := setupCLITestEnv(t)
	existing := seedProject(t, env, nil)

	path := filepath.Join(env.baseDir, "import.json")
	if err := os.WriteFile(path, []byte(`[{"id": "imported-1"}]`), 0o644); err != nil {
		t.Fatalf("write import: %v", err)
	}

	out, _, err := runCLIWithInput(t, env, "n\n", "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Import cancelled")

	store, err := projects.Open(env.cfg)
	if err != nil {
		t.Fatalf("projects.Open: %v", err)
	}
	defer store.Close()
	if fetched, err := store.GetByID(context.Background(), existing.ID); err != nil || fetched == nil {
		t.Fatalf("expected existing project untouched, got %#v (err %v)", fetched, err)
	}
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	env := setupCLITestEnv(t)

	path := filepath.Join(env.baseDir, "import.json")
	if err := os.WriteFile(path, []byte(`{"id": "not-an-array"}`), 0o644); err != nil {
		t.Fatalf("write import: %v", err)
	}

	_, _, err := runCLI(t, env, "import", "--yes", path)
	if err == nil || !strings.Contains(err.Error(), "import rejected") {
		t.Fatalf("expected rejection, got %v", err)
	}
}
