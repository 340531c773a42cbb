package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/promptforge/promptforge/internal/prompt"
)

func resetAssembleFlags(t *testing.T) {
	t.Helper()
	oldRequest := assembleRequestPath
	oldTemplate := assembleTemplateID
	oldVars := assembleVars
	oldContext := assembleContext
	t.Cleanup(func() {
		assembleRequestPath = oldRequest
		assembleTemplateID = oldTemplate
		assembleVars = oldVars
		assembleContext = oldContext
	})
	assembleRequestPath = ""
	assembleTemplateID = ""
	assembleVars = nil
	assembleContext = nil
}

func displayText(t *testing.T, in map[string]prompt.Value, key string) string {
	t.Helper()
	v, ok := in[key]
	if !ok {
		t.Fatalf("variable %q missing", key)
	}
	text, err := v.DisplayText()
	if err != nil {
		t.Fatalf("DisplayText(%q) failed: %v", key, err)
	}
	return text
}

func TestBuildInputFromFlags(t *testing.T) {
	resetAssembleFlags(t)
	assembleTemplateID = "greet"
	assembleVars = []string{"name=Ada", "lang=Go"}
	assembleContext = []string{"earlier turn"}

	in, err := buildInput([]string{"hello", "there"})
	if err != nil {
		t.Fatalf("buildInput failed: %v", err)
	}
	if in.TemplateID != "greet" {
		t.Fatalf("TemplateID = %q, want %q", in.TemplateID, "greet")
	}
	if in.Prompt != "hello there" {
		t.Fatalf("Prompt = %q, want %q", in.Prompt, "hello there")
	}
	if got := displayText(t, in.Variables, "name"); got != "Ada" {
		t.Fatalf("name = %q, want %q", got, "Ada")
	}
	if got := displayText(t, in.Variables, "lang"); got != "Go" {
		t.Fatalf("lang = %q, want %q", got, "Go")
	}
	if len(in.Context) != 1 {
		t.Fatalf("got %d context items, want 1", len(in.Context))
	}
}

func TestBuildInputRejectsBadVar(t *testing.T) {
	resetAssembleFlags(t)
	assembleVars = []string{"noequals"}
	if _, err := buildInput(nil); err == nil {
		t.Fatal("expected an error for a --var without '='")
	}

	resetAssembleFlags(t)
	assembleVars = []string{"=value"}
	if _, err := buildInput(nil); err == nil {
		t.Fatal("expected an error for a --var with an empty key")
	}
}

func TestBuildInputMergesRequestFile(t *testing.T) {
	resetAssembleFlags(t)
	path := filepath.Join(t.TempDir(), "request.json")
	payload := `{"template_id":"greet","prompt":"from file","variables":{"name":"Bo"}}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("write request: %v", err)
	}

	assembleRequestPath = path
	assembleTemplateID = "other"
	assembleVars = []string{"extra=1"}

	in, err := buildInput(nil)
	if err != nil {
		t.Fatalf("buildInput failed: %v", err)
	}
	if in.TemplateID != "other" {
		t.Fatalf("flag should override file template, got %q", in.TemplateID)
	}
	if in.Prompt != "from file" {
		t.Fatalf("Prompt = %q, want %q", in.Prompt, "from file")
	}
	if got := displayText(t, in.Variables, "name"); got != "Bo" {
		t.Fatalf("name = %q, want %q", got, "Bo")
	}
	if got := displayText(t, in.Variables, "extra"); got != "1" {
		t.Fatalf("extra = %q, want %q", got, "1")
	}
}
