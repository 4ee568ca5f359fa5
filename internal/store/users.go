package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrUserNotFound is returned when an operation references an unknown
// username. The ingestion and query boundaries map it to a 404.
var ErrUserNotFound = errors.New("user not found")

// User is a known identity the activity log is partitioned by. Credential
// management lives elsewhere; a username here is an opaque reference.
type User struct {
	Username            string    `json:"username"`
	CreatedAt           time.Time `json:"createdAt"`
	LastActive          time.Time `json:"lastActive"`
	TrackingEnabled     bool      `json:"trackingEnabled"`
	SyncIntervalMinutes int       `json:"syncIntervalMinutes"`
}

// CreateUser registers a username. Creating an existing user is an error.
func (db *DB) CreateUser(ctx context.Context, username string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (username, created_at, last_active) VALUES (?, ?, ?)",
		username, now, now,
	)
	return err
}

// GetUser returns the user record for a username, or ErrUserNotFound.
func (db *DB) GetUser(ctx context.Context, username string) (*User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT username, created_at, last_active, tracking_enabled, sync_interval_minutes
		 FROM users WHERE username = ?`, username)

	var u User
	var createdAt, lastActive string
	err := row.Scan(&u.Username, &createdAt, &lastActive, &u.TrackingEnabled, &u.SyncIntervalMinutes)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.LastActive, _ = time.Parse(time.RFC3339, lastActive)
	return &u, nil
}

// UpdateUserSettings sets a user's tracking flag and sync interval.
func (db *DB) UpdateUserSettings(ctx context.Context, username string, trackingEnabled bool, syncIntervalMinutes int) error {
	result, err := db.conn.ExecContext(ctx,
		"UPDATE users SET tracking_enabled = ?, sync_interval_minutes = ? WHERE username = ?",
		trackingEnabled, syncIntervalMinutes, username,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TouchLastActive updates a user's last-active timestamp. It is idempotent
// and deliberately outside the batch-insert transaction.
func (db *DB) TouchLastActive(ctx context.Context, username string, at time.Time) error {
	result, err := db.conn.ExecContext(ctx,
		"UPDATE users SET last_active = ? WHERE username = ?",
		at.UTC().Format(time.RFC3339), username,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
