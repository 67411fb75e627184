// Package httpcache stores HTTP responses in a local SQLite database and
// replays them for repeated requests to the same URL.
package httpcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached HTTP response, keyed by the full request URL.
type Entry struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			url          TEXT PRIMARY KEY,
			status       INTEGER NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			body         BLOB NOT NULL,
			fetched_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Get returns the entry for url if it was fetched within ttl. A nil entry
// with nil error means a miss. ttl <= 0 disables the freshness check.
func (s *Store) Get(url string, ttl time.Duration) (*Entry, error) {
	var e Entry
	err := s.readDB.QueryRow(`
		SELECT url, status, content_type, body, fetched_at
		FROM responses WHERE url = ?
	`, url).Scan(&e.URL, &e.Status, &e.ContentType, &e.Body, &e.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying response: %w", err)
	}
	if ttl > 0 && time.Since(e.FetchedAt) > ttl {
		return nil, nil
	}
	return &e, nil
}

func (s *Store) Put(e Entry) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO responses (url, status, content_type, body, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			status = excluded.status,
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, e.URL, e.Status, e.ContentType, e.Body, e.FetchedAt)
	if err != nil {
		return fmt.Errorf("storing response: %w", err)
	}
	return nil
}

// Prune deletes responses fetched more than age ago and reports how many
// were removed.
func (s *Store) Prune(age time.Duration) (int64, error) {
	res, err := s.writeDB.Exec(`DELETE FROM responses WHERE fetched_at < ?`, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("pruning responses: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports the number of cached responses and the database size on disk.
func (s *Store) Stats(dbPath string) (int64, int64, error) {
	var count int64
	if err := s.readDB.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting responses: %w", err)
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading db size: %w", err)
	}
	return count, fi.Size(), nil
}
