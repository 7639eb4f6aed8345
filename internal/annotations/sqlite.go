package annotations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sitecam/internal/timeline"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	date TEXT NOT NULL,
	clip_time TEXT NOT NULL,
	video_time TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	is_flag INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_kind_date ON artifacts(kind, date);
`

const selectColumns = "SELECT id, kind, date, clip_time, video_time, content, is_flag, created_at FROM artifacts"

// SQLiteStore keeps artifacts in a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path and applies the schema.
// Parent directories are created if they don't exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	const op = "annotations.OpenSQLite"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", op, err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close implements Store.Close.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List implements Store.List.
func (s *SQLiteStore) List(ctx context.Context, kind timeline.Kind, date string) ([]timeline.Artifact, error) {
	const op = "annotations.SQLiteStore.List"

	var (
		rows *sql.Rows
		err  error
	)
	if date == "" {
		rows, err = s.db.QueryContext(ctx, selectColumns+" WHERE kind = ? ORDER BY id", string(kind))
	} else {
		rows, err = s.db.QueryContext(ctx, selectColumns+" WHERE kind = ? AND date = ? ORDER BY id", string(kind), date)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]timeline.Artifact, 0)
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Get implements Store.Get.
func (s *SQLiteStore) Get(ctx context.Context, kind timeline.Kind, id int64) (timeline.Artifact, error) {
	const op = "annotations.SQLiteStore.Get"

	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE kind = ? AND id = ?", string(kind), id)
	a, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timeline.Artifact{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Create implements Store.Create.
func (s *SQLiteStore) Create(ctx context.Context, a timeline.Artifact) (timeline.Artifact, error) {
	const op = "annotations.SQLiteStore.Create"

	a.CreatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO artifacts(kind, date, clip_time, video_time, content, is_flag, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		string(a.Kind), a.Date, a.ClipTime, a.VideoTime, a.Content, a.IsFlag, a.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}
	a.ID = id
	return a, nil
}

// Update implements Store.Update.
func (s *SQLiteStore) Update(ctx context.Context, a timeline.Artifact) (timeline.Artifact, error) {
	const op = "annotations.SQLiteStore.Update"

	res, err := s.db.ExecContext(ctx,
		"UPDATE artifacts SET clip_time = ?, video_time = ?, content = ?, is_flag = ? WHERE kind = ? AND id = ?",
		a.ClipTime, a.VideoTime, a.Content, a.IsFlag, string(a.Kind), a.ID,
	)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return timeline.Artifact{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return s.Get(ctx, a.Kind, a.ID)
}

// Delete implements Store.Delete.
func (s *SQLiteStore) Delete(ctx context.Context, kind timeline.Kind, id int64) error {
	const op = "annotations.SQLiteStore.Delete"

	res, err := s.db.ExecContext(ctx, "DELETE FROM artifacts WHERE kind = ? AND id = ?", string(kind), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context, kind timeline.Kind) (int, error) {
	const op = "annotations.SQLiteStore.Count"

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts WHERE kind = ?", string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (timeline.Artifact, error) {
	var (
		a       timeline.Artifact
		kind    string
		created string
	)
	if err := row.Scan(&a.ID, &kind, &a.Date, &a.ClipTime, &a.VideoTime, &a.Content, &a.IsFlag, &created); err != nil {
		return timeline.Artifact{}, err
	}
	a.Kind = timeline.Kind(kind)

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return timeline.Artifact{}, fmt.Errorf("created_at %q: %w", created, err)
	}
	a.CreatedAt = t
	return a, nil
}
