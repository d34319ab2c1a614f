package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

func TestRecentLogs_ParsesByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.log"), "ERROR: disk full\nall good\n")
	writeFile(t, filepath.Join(dir, "b.json"), `{"level":"debug","message":"probe"}`+"\n")

	records, err := RecentLogs(dir, 100)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	byMessage := map[string]models.LogRecord{}
	for _, rec := range records {
		key := rec.Message
		if key == "" {
			key = rec.Raw
		}
		byMessage[key] = rec
	}

	if rec := byMessage["ERROR: disk full"]; rec.Level != models.LevelError || rec.Source != "a.log" {
		t.Errorf("plain error line mis-parsed: %+v", rec)
	}
	if rec := byMessage["probe"]; rec.Level != models.LevelDebug || rec.Source != "b.json" {
		t.Errorf("json line mis-parsed: %+v", rec)
	}
}

func TestRecentLogs_LimitTruncates(t *testing.T) {
	dir := t.TempDir()
	content := ""
	for i := 0; i < 20; i++ {
		content += fmt.Sprintf("line %d\n", i)
	}
	writeFile(t, filepath.Join(dir, "a.log"), content)

	records, err := RecentLogs(dir, 7)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7", len(records))
	}
	// The newest lines survive the cap: lines 13..19, on-disk order.
	if records[0].Raw != "line 13" || records[6].Raw != "line 19" {
		t.Errorf("kept lines %q..%q, want the end of the file", records[0].Raw, records[6].Raw)
	}
}

func TestRecentLogs_MostRecentFilesFirst(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.log")
	writeFile(t, old, "old line\n")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	writeFile(t, filepath.Join(dir, "new.log"), "new line\n")

	records, err := RecentLogs(dir, 100)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Source != "new.log" {
		t.Errorf("first record from %q, want the most recently modified file", records[0].Source)
	}
}

func TestRecentLogs_BudgetKeepsTailAcrossFiles(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.log")
	writeFile(t, old, "old 0\nold 1\nold 2\nold 3\nold 4\n")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	writeFile(t, filepath.Join(dir, "new.log"), "new 0\nnew 1\n")

	records, err := RecentLogs(dir, 4)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}

	var got []string
	for _, rec := range records {
		got = append(got, rec.Raw)
	}
	want := []string{"new 0", "new 1", "old 3", "old 4"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRecentLogs_ConsultsAtMostFiveFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%d.log", i))
		writeFile(t, path, fmt.Sprintf("from f%d\n", i))
		mt := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	records, err := RecentLogs(dir, 100)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}

	sources := map[string]bool{}
	for _, rec := range records {
		sources[rec.Source] = true
	}
	if len(sources) != 5 {
		t.Errorf("consulted %d files, want 5", len(sources))
	}
	if sources["f0.log"] || sources["f1.log"] || sources["f2.log"] {
		t.Errorf("oldest files should not be consulted, got %v", sources)
	}
}

func TestRecentLogs_MissingDirectory(t *testing.T) {
	records, err := RecentLogs(filepath.Join(t.TempDir(), "absent"), 10)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestRecentLogs_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.log"), "hello\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a log\n")

	records, err := RecentLogs(dir, 10)
	if err != nil {
		t.Fatalf("RecentLogs failed: %v", err)
	}
	if len(records) != 1 || records[0].Source != "a.log" {
		t.Fatalf("got %+v, want only a.log content", records)
	}
}
