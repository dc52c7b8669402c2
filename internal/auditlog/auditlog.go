// Package auditlog persists every gateway request/response pair in SQLite.
// Writes are best effort: a failed write is logged and swallowed, it never
// alters the caller-visible result.
package auditlog

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNotFound is returned when a log entry does not exist.
var ErrNotFound = errors.New("log entry not found")

const schema = `
-- Full request/response audit trail, one row per gateway call.
CREATE TABLE IF NOT EXISTS request_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    request_id TEXT,
    operation TEXT NOT NULL,          -- 'auth', 'receipt' or 'status'
    method TEXT,
    path TEXT,
    source_ip TEXT,
    request_body TEXT,
    target_url TEXT,
    target_body TEXT,
    response_status INTEGER,
    response_body TEXT,
    client_status INTEGER,
    client_body TEXT,
    duration_ms INTEGER,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_request_logs_operation
    ON request_logs(operation);

CREATE INDEX IF NOT EXISTS idx_request_logs_created
    ON request_logs(created_at);
`

// Entry is one audit record.
type Entry struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	RequestID      string    `json:"request_id"`
	Operation      string    `json:"operation"`
	Method         string    `json:"method"`
	Path           string    `json:"path"`
	SourceIP       string    `json:"source_ip"`
	RequestBody    string    `json:"request_body"`
	TargetURL      string    `json:"target_url"`
	TargetBody     string    `json:"target_body"`
	ResponseStatus int       `json:"response_status"`
	ResponseBody   string    `json:"response_body"`
	ClientStatus   int       `json:"client_status"`
	ClientBody     string    `json:"client_body"`
	DurationMS     int64     `json:"duration_ms"`
	ErrorMessage   string    `json:"error_message"`
}

// Filter narrows List results.
type Filter struct {
	Operation string
	Path      string
	Status    int
	Limit     int
	Offset    int
}

// Stats aggregates the audit trail for the dashboard.
type Stats struct {
	Total         int64            `json:"total"`
	Errors        int64            `json:"errors"`
	AvgDurationMS float64          `json:"avg_duration_ms"`
	ByOperation   map[string]int64 `json:"by_operation"`
}

// Store is the SQLite-backed audit log.
type Store struct {
	db *sql.DB

	// OnDrop, when set, is invoked for every write that failed.
	OnDrop func()
}

// Open opens the audit database, creating the file and schema as needed.
// WAL mode keeps concurrent request handlers from blocking each other.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry. Best effort: failures are logged and dropped.
func (s *Store) Record(e Entry) {
	_, err := s.db.Exec(
		`INSERT INTO request_logs (
			request_id, operation, method, path, source_ip,
			request_body, target_url, target_body,
			response_status, response_body,
			client_status, client_body,
			duration_ms, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Operation, e.Method, e.Path, e.SourceIP,
		e.RequestBody, e.TargetURL, e.TargetBody,
		e.ResponseStatus, e.ResponseBody,
		e.ClientStatus, e.ClientBody,
		e.DurationMS, e.ErrorMessage,
	)
	if err != nil {
		slog.Error("failed to write audit log", "error", err, "operation", e.Operation)
		if s.OnDrop != nil {
			s.OnDrop()
		}
	}
}

// List returns entries newest first, applying the filter.
func (s *Store) List(f Filter) ([]Entry, error) {
	query := `SELECT id, created_at, request_id, operation, method, path, source_ip,
		request_body, target_url, target_body,
		response_status, response_body, client_status, client_body,
		duration_ms, error_message
		FROM request_logs WHERE 1=1`
	var args []interface{}

	if f.Operation != "" {
		query += " AND operation = ?"
		args = append(args, f.Operation)
	}
	if f.Path != "" {
		query += " AND path LIKE ?"
		args = append(args, "%"+f.Path+"%")
	}
	if f.Status != 0 {
		query += " AND client_status = ?"
		args = append(args, f.Status)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by id.
func (s *Store) Get(id int64) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, request_id, operation, method, path, source_ip,
			request_body, target_url, target_body,
			response_status, response_body, client_status, client_body,
			duration_ms, error_message
		FROM request_logs WHERE id = ?`, id)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Aggregate computes the dashboard stats.
func (s *Store) Aggregate() (*Stats, error) {
	stats := &Stats{ByOperation: make(map[string]int64)}

	row := s.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN client_status >= 400 OR error_message != '' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM request_logs`)
	if err := row.Scan(&stats.Total, &stats.Errors, &stats.AvgDurationMS); err != nil {
		return nil, fmt.Errorf("failed to aggregate logs: %w", err)
	}

	rows, err := s.db.Query(`SELECT operation, COUNT(*) FROM request_logs GROUP BY operation`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by operation: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op string
		var count int64
		if err := rows.Scan(&op, &count); err != nil {
			return nil, err
		}
		stats.ByOperation[op] = count
	}
	return stats, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	err := sc.Scan(
		&e.ID, &e.CreatedAt, &e.RequestID, &e.Operation, &e.Method, &e.Path, &e.SourceIP,
		&e.RequestBody, &e.TargetURL, &e.TargetBody,
		&e.ResponseStatus, &e.ResponseBody, &e.ClientStatus, &e.ClientBody,
		&e.DurationMS, &e.ErrorMessage,
	)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}
