package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/symanto/internal/config"
	"github.com/studiowebux/symanto/internal/migrations"
	"github.com/studiowebux/symanto/internal/types"
)

const sqliteTimestamp = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

// NewManager opens (creating if needed) the history database at dbPath.
// ":memory:" opens a private in-memory database.
func NewManager(dbPath string) (*Manager, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// Analyze runs three requests at once; serialize writers on one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save records one analysis and returns its id
func (m *Manager) Save(entry types.HistoryEntry) (int64, error) {
	query := `
		INSERT INTO analyses (timestamp, kind, text, language, status, response, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := time.Now()
	if entry.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			timestamp = parsed
		}
	}

	var response sql.NullString
	if len(entry.Response) > 0 {
		response = sql.NullString{String: string(entry.Response), Valid: true}
	}

	res, err := m.db.Exec(query,
		timestamp.Local().Format(sqliteTimestamp),
		entry.Kind,
		entry.Text,
		entry.Language,
		entry.Status,
		response,
		entry.Duration,
		entry.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history entry id: %w", err)
	}
	return id, nil
}

// List returns entries newest first without their response bodies.
// limit <= 0 returns everything.
func (m *Manager) List(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, kind, text, language, status, NULL, duration_ms, error
		FROM analyses
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search ranks entries by a fuzzy match of pattern against their text
func (m *Manager) Search(pattern string, limit int) ([]types.HistoryEntry, error) {
	all, err := m.List(0)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(all))
	for i, entry := range all {
		texts[i] = entry.Text
	}

	matches := fuzzy.Find(pattern, texts)
	results := make([]types.HistoryEntry, 0, len(matches))
	for _, match := range matches {
		results = append(results, all[match.Index])
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}

// Get returns one entry including its response body
func (m *Manager) Get(id int64) (*types.HistoryEntry, error) {
	rows, err := m.db.Query(`
		SELECT id, timestamp, kind, text, language, status, response, duration_ms, error
		FROM analyses
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("history entry not found: %d", id)
	}
	return &entries[0], nil
}

// Stats aggregates entries per kind
func (m *Manager) Stats() ([]types.KindStats, error) {
	rows, err := m.db.Query(`
		SELECT kind,
		       COUNT(*),
		       SUM(CASE WHEN error IS NOT NULL AND error != '' THEN 1 ELSE 0 END),
		       AVG(duration_ms),
		       MAX(timestamp)
		FROM analyses
		GROUP BY kind
		ORDER BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load history stats: %w", err)
	}
	defer rows.Close()

	var stats []types.KindStats
	for rows.Next() {
		var s types.KindStats
		var lastUsed string
		if err := rows.Scan(&s.Kind, &s.Count, &s.Errors, &s.AvgDurationMs, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan history stats: %w", err)
		}
		s.LastUsed = parseTimestamp(lastUsed)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM analyses")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var language, response, errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.Kind,
			&entry.Text,
			&language,
			&entry.Status,
			&response,
			&entry.Duration,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.Timestamp = parseTimestamp(timestamp)
		entry.Language = language.String
		entry.Error = errorMsg.String
		if response.Valid && json.Valid([]byte(response.String)) {
			entry.Response = json.RawMessage(response.String)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// parseTimestamp converts a stored local timestamp to RFC3339
func parseTimestamp(timestamp string) string {
	parsed, err := time.ParseInLocation(sqliteTimestamp, timestamp, time.Local)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return timestamp
		}
	}
	return parsed.Format(time.RFC3339)
}
