// Package sessionstore provides the durable key/value medium the session
// service writes through. The SQLite variant survives restarts; the in-memory
// variant backs tests.
package sessionstore

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/pcasconnect/campus/core/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLite is a single-table key/value store. SetAll writes inside one
// transaction, so the multi-key session record is committed whole or not at
// all.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (creating directories and schema as needed) the store at
// path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrap(err, "creating store directory")
		}
	}
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "opening session store")
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrating session store")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", session.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %q", key)
	}
	return value, nil
}

func (s *SQLite) SetAll(values map[string]string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning write")
	}
	for key, value := range values {
		if _, err = tx.Exec(
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value,
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "writing %q", key)
		}
	}
	return errors.Wrap(tx.Commit(), "committing write")
}

func (s *SQLite) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return errors.Wrap(err, "building delete")
	}
	_, err = s.db.Exec(s.db.Rebind(query), args...)
	return errors.Wrap(err, "clearing keys")
}
