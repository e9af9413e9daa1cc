package subs

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS subscriptions (
		scope      TEXT NOT NULL,
		channel    TEXT NOT NULL,
		author     TEXT NOT NULL,
		subscriber TEXT NOT NULL,
		PRIMARY KEY (scope, channel, author, subscriber)
	)`

// SQLiteStore keeps subscriptions in a sqlite database so they survive
// restarts. Selected by setting subscriptions.db_path in the config.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and ensures
// the schema exists. The caller should Close the store when done.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Subscribe implements Store.
func (s *SQLiteStore) Subscribe(scope, channel, author, user string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO subscriptions (scope, channel, author, subscriber)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, channel, author, subscriber) DO NOTHING`,
		scope, channel, author, user,
	)
	if err != nil {
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	added, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return added > 0, nil
}

// Entries implements Store.
func (s *SQLiteStore) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT scope, channel, author, subscriber
		FROM subscriptions
		ORDER BY scope, channel, author`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var scope, channel, author, subscriber string
		if err := rows.Scan(&scope, &channel, &author, &subscriber); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}

		n := len(entries)
		if n > 0 && entries[n-1].Scope == scope && entries[n-1].Channel == channel && entries[n-1].Author == author {
			entries[n-1].Subscribers = append(entries[n-1].Subscribers, subscriber)
			continue
		}
		entries = append(entries, Entry{
			Scope:       scope,
			Channel:     channel,
			Author:      author,
			Subscribers: []string{subscriber},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return entries, nil
}

// Subscribers implements Store.
func (s *SQLiteStore) Subscribers(scope, channel, author string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT subscriber
		FROM subscriptions
		WHERE scope = ? AND channel = ? AND author = ?`,
		scope, channel, author,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}
	return users, nil
}

// Remove implements Store.
func (s *SQLiteStore) Remove(scope, channel, author string, users []string) error {
	if len(users) == 0 {
		return nil
	}

	placeholders := strings.Repeat(", ?", len(users))[2:]
	args := []any{scope, channel, author}
	for _, user := range users {
		args = append(args, user)
	}

	_, err := s.db.Exec(`
		DELETE FROM subscriptions
		WHERE scope = ? AND channel = ? AND author = ?
		AND subscriber IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("delete subscribers: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(scope, channel, author string) error {
	_, err := s.db.Exec(`
		DELETE FROM subscriptions
		WHERE scope = ? AND channel = ? AND author = ?`,
		scope, channel, author,
	)
	if err != nil {
		return fmt.Errorf("delete subscribers: %w", err)
	}
	return nil
}
