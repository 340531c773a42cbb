// Package audit appends one JSONL record per assembly to per-day files,
// with retention cleanup by file date. The rendered text itself is not
// stored, only its shape, so the trail stays small and free of prompt
// content.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/prompt"
)

// Trail writes assembly audit records as configured. A disabled trail is
// valid and ignores every Write.
type Trail struct {
	cfg config.AuditConfig
	mu  sync.Mutex
}

// Record is one audited assembly.
type Record struct {
	ID                string `json:"id"`
	Timestamp         string `json:"timestamp"`
	RequestDigest     string `json:"request_digest"`
	TemplateUsed      string `json:"template_used,omitempty"`
	VariablesReplaced int    `json:"variables_replaced"`
	EstimatedTokens   int    `json:"estimated_tokens"`
	ContextIncluded   bool   `json:"context_included"`
	RenderedChars     int    `json:"rendered_chars"`
}

// New returns a Trail for the given audit configuration.
func New(cfg config.AuditConfig) *Trail {
	return &Trail{cfg: cfg}
}

// Enabled reports whether records are being written.
func (t *Trail) Enabled() bool { return t.cfg.Enabled }

func (t *Trail) filePrefix() string {
	prefix := strings.TrimSpace(t.cfg.FilePrefix)
	if prefix == "" {
		prefix = "assembly"
	}
	return prefix
}

// Write appends one record for a successful assembly and prunes expired
// files while it holds the lock.
func (t *Trail) Write(in prompt.Input, res *prompt.Result) error {
	if !t.cfg.Enabled {
		return nil
	}

	if err := os.MkdirAll(t.cfg.Dir, 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	now := time.Now()
	fileName := fmt.Sprintf("%s-%s.jsonl", t.filePrefix(), now.Format("2006-01-02"))
	filePath := filepath.Join(t.cfg.Dir, fileName)

	record := Record{
		ID:                uuid.NewString(),
		Timestamp:         now.Format(time.RFC3339),
		RequestDigest:     requestDigest(in),
		TemplateUsed:      res.Metadata.TemplateUsed,
		VariablesReplaced: res.Metadata.VariablesReplacedCount,
		EstimatedTokens:   res.Metadata.EstimatedTokens,
		ContextIncluded:   res.Metadata.ContextIncluded,
		RenderedChars:     len(res.RenderedText),
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := appendJSONL(filePath, line); err != nil {
		return err
	}

	return t.cleanupWithNow(now)
}

func appendJSONL(filePath string, line []byte) error {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}

// Cleanup prunes audit files older than the retention window.
func (t *Trail) Cleanup() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cleanupWithNow(time.Now())
}

func (t *Trail) cleanupWithNow(now time.Time) error {
	if !t.cfg.Enabled || t.cfg.RetentionDays <= 0 {
		return nil
	}

	entries, err := os.ReadDir(t.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list audit dir: %w", err)
	}

	prefix := t.filePrefix()
	cutoff := now.AddDate(0, 0, -t.cfg.RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".jsonl") {
			continue
		}

		filePath := filepath.Join(t.cfg.Dir, name)
		fileDate, ok := parseAuditDate(name, prefix)
		if ok {
			if fileDate.Before(startOfDay(cutoff)) {
				if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove old audit file %s: %w", filePath, err)
				}
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat audit file %s: %w", filePath, err)
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove old audit file %s: %w", filePath, err)
			}
		}
	}

	return nil
}

func parseAuditDate(filename, prefix string) (time.Time, bool) {
	raw := strings.TrimSuffix(filename, ".jsonl")
	raw = strings.TrimPrefix(raw, prefix+"-")
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// requestDigest summarizes the request shape, not its content, and
// hashes that. Two requests with the same digest had the same structure.
func requestDigest(in prompt.Input) string {
	digestInput := struct {
		TemplateID    string `json:"template_id,omitempty"`
		PromptLen     int    `json:"prompt_len"`
		VariableCount int    `json:"variable_count"`
		ContextCount  int    `json:"context_count"`
	}{
		TemplateID:    strings.TrimSpace(in.TemplateID),
		PromptLen:     len(in.Prompt),
		VariableCount: len(in.Variables),
		ContextCount:  len(in.Context),
	}
	payload, _ := json.Marshal(digestInput)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
