// Package store provides SQLite persistence for notebooks and
// transcriptions, scoped by workspace.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"audio-notebook-service/internal/models"
)

// ErrNotFound is returned when a record does not exist in the caller's
// workspace. Ownership mismatches are indistinguishable from absence.
var ErrNotFound = errors.New("not found")

// summaryMaxRunes is the display truncation limit for list projections.
const summaryMaxRunes = 200

const schema = `
CREATE TABLE IF NOT EXISTS notebooks (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT NOT NULL,
	content       TEXT NOT NULL,
	workspace_id  TEXT NOT NULL,
	notebook_type TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS transcriptions (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	filename           TEXT NOT NULL,
	transcription_text TEXT NOT NULL,
	audio_duration     TEXT NOT NULL DEFAULT '',
	workspace_id       TEXT NOT NULL,
	notebook_id        INTEGER,
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcriptions_workspace
	ON transcriptions (workspace_id, created_at);
`

// Store persists notebooks and transcriptions in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateParams carries the inputs for one materialized transcription.
type CreateParams struct {
	Filename        string
	Text            string
	AudioDuration   string
	WorkspaceID     string
	NotebookTitle   string
	NotebookContent string
}

// CreateTranscriptionNotebook inserts the notebook and the transcription
// referencing it in a single transaction, so the reference is never
// dangling once both exist.
func (s *Store) CreateTranscriptionNotebook(ctx context.Context, p CreateParams) (notebookID, transcriptionID int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := s.now()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO notebooks (title, content, workspace_id, notebook_type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.NotebookTitle, p.NotebookContent, p.WorkspaceID, models.NotebookTypeTranscription, now)
	if err != nil {
		return 0, 0, fmt.Errorf("insert notebook: %w", err)
	}
	notebookID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("notebook id: %w", err)
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO transcriptions (filename, transcription_text, audio_duration, workspace_id, notebook_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Filename, p.Text, p.AudioDuration, p.WorkspaceID, notebookID, now, now)
	if err != nil {
		return 0, 0, fmt.Errorf("insert transcription: %w", err)
	}
	transcriptionID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("transcription id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return notebookID, transcriptionID, nil
}

// List returns the workspace's transcriptions newest first, left-joined
// against notebooks so a missing notebook does not exclude the row. Text is
// truncated for display.
func (s *Store) List(ctx context.Context, workspaceID string) ([]models.TranscriptionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.filename, t.transcription_text, t.audio_duration,
		       t.created_at, t.updated_at, COALESCE(n.id, 0)
		FROM transcriptions t
		LEFT JOIN notebooks n ON t.notebook_id = n.id
		WHERE t.workspace_id = ?
		ORDER BY t.created_at DESC
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("query transcriptions: %w", err)
	}
	defer rows.Close()

	var out []models.TranscriptionSummary
	for rows.Next() {
		var (
			sum                  models.TranscriptionSummary
			text, duration       string
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&sum.ID, &sum.Filename, &text, &duration,
			&createdAt, &updatedAt, &sum.NotebookID); err != nil {
			return nil, fmt.Errorf("scan transcription: %w", err)
		}
		sum.Text = truncate(text)
		if duration == "" {
			duration = "N/A"
		}
		sum.AudioDuration = duration
		sum.CreatedAt = createdAt.Format("2006-01-02 15:04")
		sum.UpdatedAt = updatedAt.Format("2006-01-02 15:04")
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the transcription and, when it belongs to the same
// workspace, its notebook. Returns ErrNotFound when the transcription does
// not exist in the workspace. The deleted notebook id is returned (0 when
// no notebook was removed).
func (s *Store) Delete(ctx context.Context, id int64, workspaceID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var notebookID sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT notebook_id FROM transcriptions
		WHERE id = ? AND workspace_id = ?
	`, id, workspaceID).Scan(&notebookID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find transcription: %w", err)
	}

	var deletedNotebook int64
	if notebookID.Valid && notebookID.Int64 > 0 {
		// Only remove the notebook when it is in the caller's workspace.
		res, err := tx.ExecContext(ctx, `
			DELETE FROM notebooks WHERE id = ? AND workspace_id = ?
		`, notebookID.Int64, workspaceID)
		if err != nil {
			return 0, fmt.Errorf("delete notebook: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			deletedNotebook = notebookID.Int64
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transcriptions WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("delete transcription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return deletedNotebook, nil
}

// GetNotebook returns a workspace's notebook by id, or ErrNotFound.
func (s *Store) GetNotebook(ctx context.Context, id int64, workspaceID string) (*models.NotebookRecord, error) {
	var nb models.NotebookRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, workspace_id, notebook_type, created_at
		FROM notebooks
		WHERE id = ? AND workspace_id = ?
	`, id, workspaceID).Scan(&nb.ID, &nb.Title, &nb.Content, &nb.WorkspaceID, &nb.NotebookType, &nb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query notebook: %w", err)
	}
	return &nb, nil
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryMaxRunes {
		return text
	}
	return string(runes[:summaryMaxRunes]) + "..."
}
