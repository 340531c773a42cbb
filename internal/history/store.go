// Package history persists conversation turns in SQLite so assembly
// requests can reference a conversation key instead of carrying context
// items inline.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Message is one stored conversation turn.
type Message struct {
	ID        int64
	Role      string
	Content   string
	CreatedAt time.Time
}

// Store handles persistence of conversation history using SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SQLite-backed history store at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			key         TEXT NOT NULL UNIQUE,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id  INTEGER NOT NULL,
			role             TEXT NOT NULL,
			content          TEXT,
			created_at       TEXT NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
		CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
	`)
	return err
}

func (s *Store) getOrCreateConversation(key string) (int64, error) {
	row := s.db.QueryRow(`SELECT id FROM conversations WHERE key = ?`, key)

	var id int64
	err := row.Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	now := time.Now().Format(time.RFC3339)
	result, err := s.db.Exec(`
		INSERT INTO conversations (key, created_at, updated_at)
		VALUES (?, ?, ?)
	`, key, now, now)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Append records one turn under the conversation key, creating the
// conversation on first use.
func (s *Store) Append(key, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.getOrCreateConversation(key)
	if err != nil {
		return fmt.Errorf("failed to resolve conversation: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	if _, err := s.db.Exec(`
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, id, role, content, now); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	_, err = s.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, now, id)
	return err
}

// Recent returns up to limit trailing turns of the conversation in
// chronological order. An unknown key or a non-positive limit yields no
// turns.
func (s *Store) Recent(key string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT m.id, m.role, m.content, m.created_at
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE c.key = ?
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?
	`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var content sql.NullString
		var createdAt string

		if err := rows.Scan(&msg.ID, &msg.Role, &content, &createdAt); err != nil {
			return nil, err
		}
		if content.Valid {
			msg.Content = content.String
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			msg.CreatedAt = t
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query walks newest-first; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ContextStrings renders stored turns as context items, one "Role:
// content" line per turn.
func ContextStrings(messages []Message) []string {
	out := make([]string, 0, len(messages))
	for _, msg := range messages {
		out = append(out, fmt.Sprintf("%s: %s", roleLabel(msg.Role), msg.Content))
	}
	return out
}

func roleLabel(role string) string {
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
