package kv

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// SQLStore is a durable key-value store over a single sqlite (or libsql)
// table. One row per key, last writer wins.
type SQLStore struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

// NewSQLStore opens the backing database for the given driver ("sqlite3"
// or "libsql") and ensures the kv table exists.
func NewSQLStore(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*SQLStore, error) {
	start := time.Now()

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driverName, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage ping failed: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS hep_kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	if logger != nil {
		logger.Storage().Info("Durable kv store ready", "driver", driverName, "duration", time.Since(start))
	}

	return &SQLStore{db: db, logger: logger}, nil
}

// Get returns the value at key and whether it exists.
func (s *SQLStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM hep_kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Storage().Error("kv read failed", "key", key, "error", err.Error())
		}
		return "", false, err
	}
	return value, true, nil
}

// Set upserts the value at key.
func (s *SQLStore) Set(key, value string) error {
	query := `INSERT INTO hep_kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := s.db.Exec(query, key, value, time.Now().UTC())
	if err != nil && s.logger != nil {
		s.logger.Storage().Error("kv write failed", "key", key, "error", err.Error())
	}
	return err
}

// Delete removes the value at key. Deleting a missing key is not an error.
func (s *SQLStore) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM hep_kv WHERE key = ?", key)
	return err
}

// Close releases the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
