package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/prompt"
)

func sampleResult() *prompt.Result {
	return &prompt.Result{
		RenderedText: "Hello Ada!",
		Metadata: prompt.Metadata{
			TemplateUsed:           "greet",
			VariablesReplacedCount: 1,
			EstimatedTokens:        3,
			ContextIncluded:        false,
		},
	}
}

func TestWriteDisabledDoesNothing(t *testing.T) {
	dir := t.TempDir()
	trail := New(config.AuditConfig{Enabled: false, Dir: dir})
	if err := trail.Write(prompt.Input{TemplateID: "greet"}, sampleResult()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no audit files, got %d", len(entries))
	}
}

func TestWriteAppendsRecords(t *testing.T) {
	dir := t.TempDir()
	trail := New(config.AuditConfig{
		Enabled:       true,
		Dir:           dir,
		FilePrefix:    "assembly",
		RetentionDays: 7,
	})

	in := prompt.Input{TemplateID: "greet", Variables: map[string]prompt.Value{"name": prompt.String("Ada")}}
	if err := trail.Write(in, sampleResult()); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := trail.Write(in, sampleResult()); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	fileName := "assembly-" + time.Now().Format("2006-01-02") + ".jsonl"
	f, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal record: %v", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan audit file: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	rec := records[0]
	if rec.ID == "" || rec.Timestamp == "" {
		t.Fatalf("expected id and timestamp, got %+v", rec)
	}
	if len(rec.RequestDigest) != 64 {
		t.Fatalf("expected sha256 hex digest, got %q", rec.RequestDigest)
	}
	if rec.TemplateUsed != "greet" || rec.EstimatedTokens != 3 || rec.RenderedChars != 10 {
		t.Fatalf("unexpected record fields: %+v", rec)
	}
	if records[0].RequestDigest != records[1].RequestDigest {
		t.Fatalf("same-shaped requests must share a digest")
	}
	if records[0].ID == records[1].ID {
		t.Fatalf("records must have distinct ids")
	}
}

func TestCleanupRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	trail := New(config.AuditConfig{
		Enabled:       true,
		Dir:           dir,
		FilePrefix:    "assembly",
		RetentionDays: 7,
	})

	old := "assembly-2020-01-01.jsonl"
	fresh := "assembly-" + time.Now().Format("2006-01-02") + ".jsonl"
	other := "unrelated-2020-01-01.jsonl"
	for _, name := range []string{old, fresh, other} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := trail.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, old)); !os.IsNotExist(err) {
		t.Fatalf("expected expired file removed, stat err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, fresh)); err != nil {
		t.Fatalf("expected fresh file kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, other)); err != nil {
		t.Fatalf("expected foreign file untouched: %v", err)
	}
}

func TestCleanupZeroRetentionKeepsEverything(t *testing.T) {
	dir := t.TempDir()
	trail := New(config.AuditConfig{Enabled: true, Dir: dir, FilePrefix: "assembly", RetentionDays: 0})

	name := "assembly-2020-01-01.jsonl"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := trail.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("zero retention must keep files: %v", err)
	}
}
