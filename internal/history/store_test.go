package history

import (
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := newTestStore(t)

	turns := []struct{ role, content string }{
		{"user", "first question"},
		{"assistant", "first answer"},
		{"user", "second question"},
		{"assistant", "second answer"},
	}
	for _, turn := range turns {
		if err := s.Append("chat-1", turn.role, turn.content); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := s.Recent("chat-1", 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got))
	}
	wantContents := []string{"first answer", "second question", "second answer"}
	for i, msg := range got {
		if msg.Content != wantContents[i] {
			t.Fatalf("turn %d: expected %q, got %q", i, wantContents[i], msg.Content)
		}
	}
}

func TestRecentUnknownKeyAndZeroLimit(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("chat-1", "user", "hello"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := s.Recent("no-such-chat", 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no turns for unknown key, got %d", len(got))
	}

	got, err = s.Recent("chat-1", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}

func TestConversationsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("a", "user", "for a"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append("b", "user", "for b"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := s.Recent("a", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 || got[0].Content != "for a" {
		t.Fatalf("expected only a's turn, got %+v", got)
	}
}

func TestContextStrings(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "", Content: "orphan"},
	}
	want := []string{"User: hi", "Assistant: hello", "Unknown: orphan"}
	if got := ContextStrings(msgs); !reflect.DeepEqual(got, want) {
		t.Fatalf("ContextStrings = %v, want %v", got, want)
	}
}
