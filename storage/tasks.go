package storage

import (
	"database/sql"
	"fmt"
	"time"

	"deskmate/model"
)

// AddTask inserts a pending task and returns its id.
func (s *Store) AddTask(text string, due *time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO tasks (task_text, status, due_date, created_at)
		VALUES (?, ?, ?, ?)`,
		text, string(model.TaskPending), nullTime(due), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add task: %w", err)
	}
	return res.LastInsertId()
}

// Tasks returns tasks newest first, optionally filtered by status.
// An empty status returns everything.
func (s *Store) Tasks(status model.TaskStatus) ([]model.Task, error) {
	query := `
		SELECT id, task_text, status, due_date, created_at, completed_at
		FROM tasks
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if status != "" {
		query = `
		SELECT id, task_text, status, due_date, created_at, completed_at
		FROM tasks
		WHERE status = ?
		ORDER BY created_at DESC, id DESC`
		args = append(args, string(status))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			t              model.Task
			st             string
			due, completed sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.Text, &st, &due, &t.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Status = model.TaskStatus(st)
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}
		if completed.Valid {
			c := completed.Time
			t.CompletedAt = &c
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus sets a task's status, stamping completed_at when it
// transitions to completed.
func (s *Store) UpdateTaskStatus(id int64, status model.TaskStatus) error {
	var completedAt any
	if status == model.TaskCompleted {
		completedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		UPDATE tasks SET status = ?, completed_at = ? WHERE id = ?`,
		string(status), completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %d not found", id)
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
