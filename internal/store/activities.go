package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// DefaultQueryLimit bounds activity listings when the caller gives none.
const DefaultQueryLimit = 100

// ActivityFilter selects activities for a user. Zero From/To mean
// unbounded on that side; an empty Type matches every type.
type ActivityFilter struct {
	Username string
	From     time.Time
	To       time.Time
	Type     event.Type
	Limit    int
}

// InsertActivities appends a batch of activities in a single transaction:
// either the whole batch is persisted or none of it is. Events are stored
// exactly as received.
func (db *DB) InsertActivities(ctx context.Context, activities []event.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities
		(username, session_id, type, timestamp, file_name, file_path, language,
		 project_folder, workspace, change_size, file_size, cursor_position,
		 line_number, character_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range activities {
		a := &activities[i]
		if _, err := stmt.ExecContext(ctx,
			a.Username, a.SessionID, string(a.Type), a.Timestamp.UnixMilli(),
			a.FileName, nullable(a.FilePath), nullable(a.Language),
			nullable(a.ProjectFolder), nullable(a.Workspace),
			nullInt(a.ChangeSize), nullInt(a.FileSize), nullInt(a.CursorPosition),
			nullInt(a.LineNumber), nullInt(a.CharacterCount),
		); err != nil {
			return fmt.Errorf("inserting activity %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Activities returns activities matching the filter, newest first, bounded
// by the filter's limit (DefaultQueryLimit when unset).
func (db *DB) Activities(ctx context.Context, f ActivityFilter) ([]event.Activity, error) {
	query := selectActivities + " WHERE username = ?"
	args := []any{f.Username}

	if !f.From.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, f.From.UnixMilli())
	}
	if !f.To.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, f.To.UnixMilli())
	}
	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, string(f.Type))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	return db.queryActivities(ctx, query, args...)
}

// ActivitiesInRange returns every activity for a user within [from, to],
// oldest first and unbounded. This is the feed the aggregation engine runs
// over; aggregations need the full time-bounded slice, not a page.
func (db *DB) ActivitiesInRange(ctx context.Context, username string, from, to time.Time) ([]event.Activity, error) {
	query := selectActivities + " WHERE username = ? AND timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC"
	return db.queryActivities(ctx, query, username, from.UnixMilli(), to.UnixMilli())
}

// DeleteActivities removes a user's activities within the given range and
// returns the number removed. Zero From/To mean unbounded on that side.
func (db *DB) DeleteActivities(ctx context.Context, username string, from, to time.Time) (int64, error) {
	query := "DELETE FROM activities WHERE username = ?"
	args := []any{username}

	if !from.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, from.UnixMilli())
	}
	if !to.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, to.UnixMilli())
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const selectActivities = `
	SELECT username, session_id, type, timestamp, file_name, file_path,
	       language, project_folder, workspace, change_size, file_size,
	       cursor_position, line_number, character_count
	FROM activities`

func (db *DB) queryActivities(ctx context.Context, query string, args ...any) ([]event.Activity, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var activities []event.Activity
	for rows.Next() {
		var a event.Activity
		var ts int64
		var filePath, language, project, workspace sql.NullString
		var changeSize, fileSize, cursor, line, chars sql.NullInt64

		if err := rows.Scan(
			&a.Username, &a.SessionID, &a.Type, &ts, &a.FileName,
			&filePath, &language, &project, &workspace,
			&changeSize, &fileSize, &cursor, &line, &chars,
		); err != nil {
			return nil, err
		}

		a.Timestamp = time.UnixMilli(ts).UTC()
		a.FilePath = filePath.String
		a.Language = language.String
		a.ProjectFolder = project.String
		a.Workspace = workspace.String
		a.ChangeSize = intPtr(changeSize)
		a.FileSize = intPtr(fileSize)
		a.CursorPosition = intPtr(cursor)
		a.LineNumber = intPtr(line)
		a.CharacterCount = intPtr(chars)

		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// nullable maps "" to NULL so optional strings round-trip as absent.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
