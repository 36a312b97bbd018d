package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"ivly-cli/internal/fsutil"
	"ivly-cli/internal/model"
)

const (
	openFileName = "open.json"
	doneFileName = "done.json"
)

// Files keeps each list in a JSON file. Before every write the previous file
// is copied to <name>.bak.json, and a primary that cannot be read falls back
// to that copy.
type Files struct {
	Dir    string
	logger Logger
}

func NewFiles(dir string, logger Logger) *Files {
	if logger == nil {
		logger = log.Default()
	}
	return &Files{Dir: dir, logger: logger}
}

func (f *Files) openPath() string { return filepath.Join(f.Dir, openFileName) }
func (f *Files) donePath() string { return filepath.Join(f.Dir, doneFileName) }

func backupPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".bak" + ext
}

func (f *Files) Paths() []string {
	return []string{f.openPath(), f.donePath()}
}

func (f *Files) LoadOpen(ctx context.Context) (model.OpenTasks, error) {
	l, err := loadJSONList[model.OpenTask](f.logger, f.openPath())
	return model.OpenTasks(l), err
}

func (f *Files) SaveOpen(ctx context.Context, tasks model.OpenTasks) error {
	return saveJSONList(f.openPath(), []model.OpenTask(tasks))
}

func (f *Files) LoadDone(ctx context.Context) (model.DoneTasks, error) {
	l, err := loadJSONList[model.DoneTask](f.logger, f.donePath())
	return model.DoneTasks(l), err
}

func (f *Files) SaveDone(ctx context.Context, tasks model.DoneTasks) error {
	return saveJSONList(f.donePath(), []model.DoneTask(tasks))
}

func (f *Files) Close() error { return nil }

// loadJSONList reads path, then its backup, then gives up with an empty
// list. Only a missing primary is silent.
func loadJSONList[T any](logger Logger, path string) ([]T, error) {
	l, err := readJSONList[T](path)
	if err == nil {
		return l, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	bak := backupPath(path)
	logger.Warn("task file unreadable, trying backup", "path", path, "err", err)
	l, bakErr := readJSONList[T](bak)
	if bakErr == nil {
		return l, nil
	}
	logger.Warn("backup unreadable, starting with an empty list", "path", bak, "err", bakErr)
	return []T{}, nil
}

func readJSONList[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveJSONList[T any](path string, l []T) error {
	if l == nil {
		l = []T{}
	}
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if fsutil.Exists(path) {
		if err := fsutil.CopyFile(path, backupPath(path)); err != nil {
			return fmt.Errorf("backup %s: %w", filepath.Base(path), err)
		}
	}
	if err := fsutil.AtomicWriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
