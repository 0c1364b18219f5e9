package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/astrocore-app/astrocore/internal/model"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("store: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (or creates) the database at path and applies pending
// migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, in model.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, type, created_at, reminder_time, follow_up_time, completed, last_triggered, repeat_enabled, repeat_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, string(in.Type),
		timeMillis(in.CreatedAt), in.ReminderMinutes, in.FollowUpTime,
		boolInt(in.Completed), nullMillis(in.LastTriggered), boolInt(in.RepeatEnabled), in.RepeatDays,
	)
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, type, created_at, reminder_time, follow_up_time, completed, last_triggered, repeat_enabled, repeat_days
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, in model.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, created_at = ?, reminder_time = ?, follow_up_time = ?, completed = ?, last_triggered = ?, repeat_enabled = ?, repeat_days = ?
		WHERE id = ?`,
		in.Title, in.Description, timeMillis(in.CreatedAt), in.ReminderMinutes, in.FollowUpTime,
		boolInt(in.Completed), nullMillis(in.LastTriggered), boolInt(in.RepeatEnabled), in.RepeatDays, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) List(ctx context.Context, filter ListFilter) ([]model.Task, error) {
	query := `SELECT id, title, description, type, created_at, reminder_time, follow_up_time, completed, last_triggered, repeat_enabled, repeat_days FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func timeMillis(v time.Time) int64 {
	return v.UnixMilli()
}

func millisTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func nullMillis(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UnixMilli()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var kind string
	var created int64
	var completed int
	var triggered sql.NullInt64
	var repeatEnabled int
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &kind, &created, &out.ReminderMinutes, &out.FollowUpTime, &completed, &triggered, &repeatEnabled, &out.RepeatDays); err != nil {
		return model.Task{}, err
	}
	out.Type = model.TaskType(kind)
	out.CreatedAt = millisTime(created)
	out.Completed = completed == 1
	out.RepeatEnabled = repeatEnabled == 1
	if triggered.Valid {
		lt := millisTime(triggered.Int64)
		out.LastTriggered = &lt
	}
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
