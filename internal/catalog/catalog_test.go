package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/promptforge/promptforge/internal/config"
)

func writeTemplate(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestNewLoadsDirAndInline(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "greet.md", "Hello {{name}}!")
	writeTemplate(t, dir, "system/role.md", "You are {{role}}.")
	writeTemplate(t, dir, "notes/plain.txt", "no placeholders")
	writeTemplate(t, dir, "ignored.json", "{}")

	c, err := New(config.AssemblyConfig{
		TemplatesDir: dir,
		Templates: map[string]string{
			"greet": "Inline wins: {{name}}",
			"extra": "only inline",
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	wantIDs := []string{"extra", "greet", "notes/plain", "system/role"}
	if got := c.IDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Fatalf("expected ids %v, got %v", wantIDs, got)
	}
	if body, _ := c.Get("greet"); body != "Inline wins: {{name}}" {
		t.Fatalf("expected inline template to win, got %q", body)
	}
	if body, ok := c.Get("system/role"); !ok || body != "You are {{role}}." {
		t.Fatalf("expected nested file template, got %q ok=%v", body, ok)
	}
	if _, ok := c.Get("ignored"); ok {
		t.Fatalf("expected non-template extension to be skipped")
	}
	if c.Count() != 4 {
		t.Fatalf("expected 4 templates, got %d", c.Count())
	}
}

func TestNewMissingDirIsFine(t *testing.T) {
	c, err := New(config.AssemblyConfig{
		TemplatesDir: filepath.Join(t.TempDir(), "does-not-exist"),
		Templates:    map[string]string{"only": "inline"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Count() != 1 {
		t.Fatalf("expected 1 template, got %d", c.Count())
	}
}

func TestTemplatesReturnsCopy(t *testing.T) {
	c, err := New(config.AssemblyConfig{Templates: map[string]string{"a": "body"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m := c.Templates()
	m["a"] = "mutated"
	m["b"] = "injected"
	if body, _ := c.Get("a"); body != "body" {
		t.Fatalf("catalog must not see map mutations, got %q", body)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("catalog must not see injected keys")
	}
}

func TestDescribeListsPlaceholders(t *testing.T) {
	c, err := New(config.AssemblyConfig{
		Templates: map[string]string{
			"greet": "Hello {{name}}, {{name}}! You have {{count}} items.",
			"plain": "static",
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	entries := c.Describe()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "greet" || entries[1].ID != "plain" {
		t.Fatalf("expected sorted entries, got %+v", entries)
	}
	if !reflect.DeepEqual(entries[0].Placeholders, []string{"name", "count"}) {
		t.Fatalf("unexpected placeholders: %v", entries[0].Placeholders)
	}
	if entries[1].Placeholders != nil {
		t.Fatalf("expected no placeholders for plain, got %v", entries[1].Placeholders)
	}
	if entries[0].SizeBytes == 0 || entries[0].EstimatedTokens == 0 {
		t.Fatalf("expected size and token estimate to be set: %+v", entries[0])
	}
}
