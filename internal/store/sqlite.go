package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"ivly-cli/internal/fsutil"
	"ivly-cli/internal/model"
)

const sqliteFileName = "ivly.sqlite"

// SQLite keeps both lists in one database. Saves replace a whole list inside
// a transaction.
type SQLite struct {
	path   string
	db     *sql.DB
	logger Logger
}

// OpenSQLite opens (and migrates) dir/ivly.sqlite. A new, empty database
// imports the JSON files of the file backend when they exist.
func OpenSQLite(ctx context.Context, dir string, logger Logger) (*SQLite, error) {
	if logger == nil {
		logger = log.Default()
	}
	path := filepath.Join(dir, sqliteFileName)
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL allows one writer and many readers; busy_timeout avoids
	// "database is locked" when two commands overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	s := &SQLite{path: path, db: db, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.importFiles(ctx, dir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS open_tasks (
			pos INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS done_tasks (
			pos INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			completed INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_done_completed ON done_tasks(completed);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// importFiles copies open.json/done.json into an empty database once.
func (s *SQLite) importFiles(ctx context.Context, dir string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM open_tasks) + (SELECT COUNT(*) FROM done_tasks)`).Scan(&n); err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if n > 0 {
		return nil
	}
	files := NewFiles(dir, s.logger)
	if !fsutil.Exists(files.openPath()) && !fsutil.Exists(files.donePath()) {
		return nil
	}
	open, err := files.LoadOpen(ctx)
	if err != nil {
		return err
	}
	done, err := files.LoadDone(ctx)
	if err != nil {
		return err
	}
	if len(open)+len(done) == 0 {
		return nil
	}
	if err := s.SaveOpen(ctx, open); err != nil {
		return err
	}
	if err := s.SaveDone(ctx, done); err != nil {
		return err
	}
	s.logger.Info("imported task files into sqlite", "open", len(open), "done", len(done), "path", s.path)
	return nil
}

func (s *SQLite) Paths() []string { return []string{s.path} }

func (s *SQLite) LoadOpen(ctx context.Context) (model.OpenTasks, error) {
	l, err := readJSONRows[model.OpenTask](ctx, s.db, `SELECT json FROM open_tasks ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load open tasks: %w", err)
	}
	return model.OpenTasks(l), nil
}

func (s *SQLite) LoadDone(ctx context.Context) (model.DoneTasks, error) {
	l, err := readJSONRows[model.DoneTask](ctx, s.db, `SELECT json FROM done_tasks ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load done tasks: %w", err)
	}
	return model.DoneTasks(l), nil
}

func (s *SQLite) SaveOpen(ctx context.Context, tasks model.OpenTasks) error {
	return s.replace(ctx, "open_tasks", len(tasks), func(tx *sql.Tx, pos int, nowMs int64) error {
		t := tasks[pos]
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO open_tasks(pos, id, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			pos, t.ID, string(raw), nowMs)
		return err
	})
}

func (s *SQLite) SaveDone(ctx context.Context, tasks model.DoneTasks) error {
	return s.replace(ctx, "done_tasks", len(tasks), func(tx *sql.Tx, pos int, nowMs int64) error {
		t := tasks[pos]
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO done_tasks(pos, id, completed, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			pos, t.ID, t.Completed, string(raw), nowMs)
		return err
	})
}

// replace deletes every row of table and inserts n rows in one transaction.
func (s *SQLite) replace(ctx context.Context, table string, n int, insert func(tx *sql.Tx, pos int, nowMs int64) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	nowMs := time.Now().UTC().UnixMilli()
	for pos := 0; pos < n; pos++ {
		if err := insert(tx, pos, nowMs); err != nil {
			return fmt.Errorf("save %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
