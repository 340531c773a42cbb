// Package httpapi exposes the assembler over HTTP: an assembly endpoint,
// schema and template listings, a status probe, and a small playground
// page for poking at requests by hand.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/promptforge/promptforge/internal/audit"
	"github.com/promptforge/promptforge/internal/catalog"
	"github.com/promptforge/promptforge/internal/history"
	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/prompt"
)

type Server struct {
	assembler *prompt.Assembler
	catalog   *catalog.Catalog
	store     *history.Store
	trail     *audit.Trail
	version   string
	startedAt time.Time
}

// NewServer wires the HTTP surface. store and trail may be nil when
// history or auditing is not configured.
func NewServer(assembler *prompt.Assembler, cat *catalog.Catalog, store *history.Store, trail *audit.Trail, version string) *Server {
	return &Server{
		assembler: assembler,
		catalog:   cat,
		store:     store,
		trail:     trail,
		version:   version,
		startedAt: time.Now().UTC(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/v1/assemble", s.handleAssemble)
	mux.HandleFunc("/v1/schema", s.handleSchema)
	mux.HandleFunc("/v1/templates", s.handleTemplates)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(defaultIndexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"ok":         true,
		"version":    s.version,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
		"templates":  s.catalog.Count(),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			payload["rss_bytes"] = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			payload["cpu_percent"] = cpu
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

type assembleRequest struct {
	prompt.Input
	// Conversation pulls stored history turns as context items when the
	// request does not carry context inline.
	Conversation string `json:"conversation,omitempty"`
}

type assembleResponse struct {
	RequestID    string          `json:"request_id"`
	RenderedText string          `json:"rendered_text"`
	Metadata     prompt.Metadata `json:"metadata"`
}

func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req assembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	requestID := uuid.NewString()

	if req.Conversation != "" && len(req.Context) == 0 && s.store != nil {
		limit := s.assembler.Settings().HistoryLength
		turns, err := s.store.Recent(req.Conversation, limit)
		if err != nil {
			logger.Warn("[HTTP] failed to load conversation %q: %v", req.Conversation, err)
		}
		for _, line := range history.ContextStrings(turns) {
			req.Context = append(req.Context, prompt.String(line))
		}
	}

	res, err := s.assembler.Invoke(req.Input)
	if err != nil {
		var tooLarge *prompt.TooLargeError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
				"error":            "prompt too large",
				"estimated_tokens": tooLarge.EstimatedTokens,
				"max_tokens":       tooLarge.MaxTokens,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if s.trail != nil {
		if err := s.trail.Write(req.Input, res); err != nil {
			logger.Warn("[HTTP] audit write failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, assembleResponse{
		RequestID:    requestID,
		RenderedText: res.RenderedText,
		Metadata:     res.Metadata,
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, prompt.DescribeInputSchema())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     s.catalog.Count(),
		"templates": s.catalog.Describe(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

const defaultIndexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>promptforge</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 960px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; margin-bottom: 16px; }
    label { display: block; font-size: 13px; margin: 10px 0 4px; color: #475569; }
    input, textarea { width: 100%; box-sizing: border-box; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; font-family: ui-monospace, monospace; font-size: 13px; }
    textarea { min-height: 70px; resize: vertical; }
    button { margin-top: 12px; padding: 10px 16px; border: 0; border-radius: 8px; background: #0f766e; color: #fff; cursor: pointer; }
    button:hover { background: #0d9488; }
    #rendered { white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; background: #f9fafb; min-height: 80px; }
    #meta { font-size: 12px; color: #475569; margin-top: 8px; white-space: pre-wrap; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>promptforge playground</h2>
      <label>template id</label>
      <input id="template" placeholder="greet" />
      <label>prompt (used when no template matches)</label>
      <textarea id="prompt" placeholder="Hello {{name}}!"></textarea>
      <label>variables (JSON object)</label>
      <textarea id="vars" placeholder='{"name": "Ada"}'></textarea>
      <label>context (one item per line)</label>
      <textarea id="ctx"></textarea>
      <button id="run">assemble</button>
    </div>
    <div class="panel">
      <div id="rendered"></div>
      <div id="meta"></div>
    </div>
  </div>
  <script>
    const el = (id) => document.getElementById(id);
    async function assemble() {
      const body = {};
      if (el('template').value.trim()) body.template_id = el('template').value.trim();
      if (el('prompt').value) body.prompt = el('prompt').value;
      const vars = el('vars').value.trim();
      if (vars) {
        try { body.variables = JSON.parse(vars); }
        catch (e) { el('rendered').textContent = 'variables is not valid JSON: ' + e; return; }
      }
      const ctx = el('ctx').value.split('\n').filter(Boolean);
      if (ctx.length) body.context = ctx;
      const resp = await fetch('/v1/assemble', { method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify(body) });
      const data = await resp.json();
      if (!resp.ok) {
        el('rendered').textContent = data.error || ('HTTP ' + resp.status);
        el('meta').textContent = JSON.stringify(data, null, 2);
        return;
      }
      el('rendered').textContent = data.rendered_text || '(empty)';
      el('meta').textContent = JSON.stringify(data.metadata, null, 2);
    }
    el('run').addEventListener('click', assemble);
  </script>
</body>
</html>`
