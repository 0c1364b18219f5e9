package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/astrocore-app/astrocore/internal/model"
)

// LoadAll reads the whole collection, failing soft: a store error yields an
// empty collection and a warning instead of propagating. The engine keeps
// ticking against whatever it can see.
func LoadAll(ctx context.Context, repo Repository, logger *slog.Logger) []model.Task {
	tasks, err := repo.List(ctx, ListFilter{})
	if err != nil {
		if logger != nil {
			logger.Warn("task load failed, continuing with empty collection", "err", err)
		}
		return []model.Task{}
	}
	return tasks
}

// ExportJSON writes every task to path as a JSON array, atomically.
func ExportJSON(ctx context.Context, repo Repository, path string) error {
	tasks, err := repo.List(ctx, ListFilter{})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	payload, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	payload = append(payload, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ImportJSON loads tasks from a JSON export. Existing ids are updated in
// place, new ids created. Invalid records are skipped; the count of imported
// tasks is returned.
func ImportJSON(ctx context.Context, repo Repository, path string, logger *slog.Logger) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	imported := 0
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			if logger != nil {
				logger.Warn("skipping invalid task in import", "id", t.ID, "err", err)
			}
			continue
		}
		if err := upsert(ctx, repo, t); err != nil {
			return imported, fmt.Errorf("import task %s: %w", t.ID, err)
		}
		imported++
	}
	return imported, nil
}

func upsert(ctx context.Context, repo Repository, t model.Task) error {
	err := repo.Update(ctx, t)
	if errors.Is(err, ErrNotFound) {
		return repo.Create(ctx, t)
	}
	return err
}
