// Package catalog loads the template catalog the assembler renders from:
// template files discovered under a directory, overlaid with inline
// templates from the config file. The catalog is read once at startup;
// editing templates means restarting the process, the same as any other
// config change.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/prompt"
)

// Catalog holds the loaded templates keyed by identifier.
type Catalog struct {
	templates map[string]string
}

// Entry describes one template for listing surfaces.
type Entry struct {
	ID              string   `json:"id"`
	Placeholders    []string `json:"placeholders,omitempty"`
	SizeBytes       int      `json:"size_bytes"`
	EstimatedTokens int      `json:"estimated_tokens"`
}

// New loads templates from cfg.TemplatesDir and overlays the inline
// cfg.Templates on top, so inline definitions win on identifier
// collisions. A missing directory is fine; unreadable files are skipped
// with a warning.
func New(cfg config.AssemblyConfig) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]string)}

	if cfg.TemplatesDir != "" {
		if err := c.loadDir(cfg.TemplatesDir); err != nil {
			return nil, err
		}
	}
	for id, body := range cfg.Templates {
		c.templates[id] = body
	}

	logger.Debug("[Catalog] loaded %d templates", len(c.templates))
	return c, nil
}

func (c *Catalog) loadDir(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("[Catalog] templates dir %s does not exist, skipping", dir)
			return nil
		}
		return err
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".md", ".txt", ".tmpl":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("[Catalog] failed to read template %s: %v", path, err)
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		id := templateID(rel)
		c.templates[id] = string(data)
		return nil
	})
}

// templateID turns a relative file path into a template identifier:
// slash-separated and without the extension, so "system/role.md"
// becomes "system/role".
func templateID(rel string) string {
	rel = filepath.ToSlash(rel)
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(rel, ext)
}

// Get returns a template body by identifier.
func (c *Catalog) Get(id string) (string, bool) {
	body, ok := c.templates[id]
	return body, ok
}

// Count reports how many templates are loaded.
func (c *Catalog) Count() int { return len(c.templates) }

// IDs returns all template identifiers, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Templates returns a copy of the catalog map, suitable for handing to
// the assembler configuration.
func (c *Catalog) Templates() map[string]string {
	out := make(map[string]string, len(c.templates))
	for id, body := range c.templates {
		out[id] = body
	}
	return out
}

// Describe lists every template with its placeholders and size, sorted
// by identifier.
func (c *Catalog) Describe() []Entry {
	entries := make([]Entry, 0, len(c.templates))
	for _, id := range c.IDs() {
		body := c.templates[id]
		entries = append(entries, Entry{
			ID:              id,
			Placeholders:    prompt.Placeholders(body),
			SizeBytes:       len(body),
			EstimatedTokens: prompt.EstimateTokens(body),
		})
	}
	return entries
}
