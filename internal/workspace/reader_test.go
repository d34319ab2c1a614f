package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestList_SkipsSchemaAndDotfiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "agents", "x.json"), `{"name":"x"}`)
	writeFile(t, filepath.Join(root, "agents", "x.schema.json"), `{"$schema":"..."}`)
	writeFile(t, filepath.Join(root, "agents", ".hidden.json"), `{"name":"hidden"}`)

	r := NewReader(root, slog.Default())
	descriptors, err := r.List("agents")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(descriptors) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(descriptors))
	}
	d := descriptors[0]
	if d.Filename != "x.json" {
		t.Errorf("Filename = %q, want x.json", d.Filename)
	}
	if d.Path != filepath.Join(root, "agents", "x.json") {
		t.Errorf("Path = %q, want full path", d.Path)
	}
	if d.Fields["name"] != "x" {
		t.Errorf("Fields[name] = %v, want x", d.Fields["name"])
	}
}

func TestList_MalformedFileSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "workflows", "good1.json"), `{"name":"one"}`)
	writeFile(t, filepath.Join(root, "workflows", "bad.json"), `{"name":`)
	writeFile(t, filepath.Join(root, "workflows", "good2.yaml"), "name: two\nsteps:\n  - analyze\n")

	r := NewReader(root, slog.Default())
	descriptors, err := r.List("workflows")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(descriptors) != 2 {
		t.Fatalf("got %d descriptors, want the 2 valid ones", len(descriptors))
	}
	names := map[string]bool{}
	for _, d := range descriptors {
		names[d.Filename] = true
	}
	if !names["good1.json"] || !names["good2.yaml"] {
		t.Errorf("unexpected descriptor set: %v", names)
	}
}

func TestList_MissingDirectoryIsEmpty(t *testing.T) {
	r := NewReader(t.TempDir(), slog.Default())
	descriptors, err := r.List("tasks")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if descriptors == nil || len(descriptors) != 0 {
		t.Errorf("got %v, want empty non-nil slice", descriptors)
	}
}

func TestList_IgnoresUnrecognizedExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tools", "t.json"), `{"name":"t"}`)
	writeFile(t, filepath.Join(root, "tools", "notes.md"), "# not a descriptor")
	writeFile(t, filepath.Join(root, "tools", "run.sh"), "echo hi")

	r := NewReader(root, slog.Default())
	descriptors, err := r.List("tools")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(descriptors) != 1 || descriptors[0].Filename != "t.json" {
		t.Fatalf("got %v, want only t.json", descriptors)
	}
}

func TestCounts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "agents", "a.json"), `{"name":"a"}`)
	writeFile(t, filepath.Join(root, "agents", "b.yaml"), "name: b\n")
	writeFile(t, filepath.Join(root, "tasks", "t.json"), `{"name":"t"}`)

	r := NewReader(root, slog.Default())
	counts := r.Counts()

	want := map[string]int{"agents": 2, "workflows": 0, "tasks": 1, "tools": 0}
	for category, n := range want {
		if counts[category] != n {
			t.Errorf("counts[%s] = %d, want %d", category, counts[category], n)
		}
	}
}

func TestWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config", "workspace.json"),
		`{"name":"valtheron","paths":{"agents":"./agents"}}`)

	r := NewReader(root, slog.Default())
	cfg, err := r.WorkspaceConfig()
	if err != nil {
		t.Fatalf("WorkspaceConfig failed: %v", err)
	}
	if cfg["name"] != "valtheron" {
		t.Errorf("name = %v, want valtheron", cfg["name"])
	}
}

func TestWorkspaceConfig_Missing(t *testing.T) {
	r := NewReader(t.TempDir(), slog.Default())
	if _, err := r.WorkspaceConfig(); err == nil {
		t.Fatal("expected error for missing workspace config")
	}
}
