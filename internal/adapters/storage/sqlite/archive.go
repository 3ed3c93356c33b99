// Package sqlite provides a SQLite-backed archive of completed interviews.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// ArchiveStore implements domain.SessionArchive on a local SQLite file.
type ArchiveStore struct {
	db *sql.DB
}

// NewArchiveStore opens (or creates) the database at dbPath and runs
// migrations.
func NewArchiveStore(dbPath string) (*ArchiveStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// single writer; the pragmas below apply to this one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	s := &ArchiveStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *ArchiveStore) Close() error {
	return s.db.Close()
}

func (s *ArchiveStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ArchiveStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archived_sessions (
		session_id TEXT PRIMARY KEY,
		outcome TEXT NOT NULL,
		outcome_label TEXT,
		domain TEXT NOT NULL,
		task TEXT NOT NULL,
		matched_task TEXT,
		answers TEXT NOT NULL,
		recommendations TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_archived_sessions_completed_at ON archived_sessions(completed_at);
	CREATE INDEX IF NOT EXISTS idx_archived_sessions_domain ON archived_sessions(domain);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ArchiveSession upserts the record keyed by session id.
func (s *ArchiveStore) ArchiveSession(ctx context.Context, rec *domain.ArchivedSession) error {
	if rec == nil {
		return nil
	}

	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	recs, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO archived_sessions
			(session_id, outcome, outcome_label, domain, task, matched_task, answers, recommendations, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			outcome = excluded.outcome,
			outcome_label = excluded.outcome_label,
			domain = excluded.domain,
			task = excluded.task,
			matched_task = excluded.matched_task,
			answers = excluded.answers,
			recommendations = excluded.recommendations,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at`,
		string(rec.SessionID), rec.Outcome, rec.OutcomeLabel, rec.Domain, rec.Task, rec.MatchedTask,
		string(answers), string(recs), rec.StartedAt.UTC(), rec.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("archive session %s: %w", rec.SessionID, err)
	}
	return nil
}

const selectColumns = `
	SELECT session_id, outcome, outcome_label, domain, task, matched_task, answers, recommendations, started_at, completed_at
	FROM archived_sessions`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ArchivedSession, error) {
	var (
		rec         domain.ArchivedSession
		id          string
		label       sql.NullString
		matched     sql.NullString
		answersJSON string
		recsJSON    string
	)
	if err := row.Scan(&id, &rec.Outcome, &label, &rec.Domain, &rec.Task, &matched,
		&answersJSON, &recsJSON, &rec.StartedAt, &rec.CompletedAt); err != nil {
		return nil, err
	}
	rec.SessionID = domain.SessionID(id)
	rec.OutcomeLabel = label.String
	rec.MatchedTask = matched.String
	if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
		return nil, fmt.Errorf("decode answers for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(recsJSON), &rec.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations for %s: %w", id, err)
	}
	return &rec, nil
}

func (s *ArchiveStore) GetArchived(ctx context.Context, id domain.SessionID) (*domain.ArchivedSession, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE session_id = ?", string(id))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("archived session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get archived session %s: %w", id, err)
	}
	return rec, nil
}

// ListArchived returns up to limit records, most recently completed first.
// limit <= 0 returns all.
func (s *ArchiveStore) ListArchived(ctx context.Context, limit int) ([]*domain.ArchivedSession, error) {
	query := selectColumns + " ORDER BY completed_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list archived sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.ArchivedSession
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archived session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
