package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure SQLiteStore implements model.HistoryStore.
var _ model.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore records generated letters in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// letters table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS letters (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		url          TEXT NOT NULL,
		company_name TEXT NOT NULL,
		post_title   TEXT NOT NULL,
		placed_path  TEXT NOT NULL,
		created_at   INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating letters table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS letters_url ON letters (url)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating letters index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// HasGenerated returns true if a letter was already generated for url.
func (s *SQLiteStore) HasGenerated(url string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM letters WHERE url = ? LIMIT 1", url).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking history for %s: %w", url, err)
	}
	return true, nil
}

// Record appends a generated letter. A zero CreatedAt is stamped with the
// current time. Times are stored as unix nanoseconds so they sort numerically.
func (s *SQLiteStore) Record(rec model.Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO letters (url, company_name, post_title, placed_path, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.URL, rec.CompanyName, rec.PostTitle, rec.PlacedPath, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recording letter for %s: %w", rec.URL, err)
	}
	return nil
}

// List returns up to limit letters, newest first. limit <= 0 returns all.
func (s *SQLiteStore) List(limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT url, company_name, post_title, placed_path, created_at FROM letters ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing letters: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var created int64
		if err := rows.Scan(&rec.URL, &rec.CompanyName, &rec.PostTitle, &rec.PlacedPath, &created); err != nil {
			return nil, fmt.Errorf("scanning letter: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing letters: %w", err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
