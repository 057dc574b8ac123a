package repository

import (
	"context"
	"fmt"
	"strings"

	"devtasker/internal/models"
)

const taskColumns = "id, project_id, tag_id, created_by, assigned_to, title, description, status, priority, due_date, created_at, updated_at"

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.ProjectID, &t.TagID, &t.CreatedBy, &t.AssignedTo, &t.Title,
		&t.Description, &t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (project_id, tag_id, created_by, assigned_to, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		t.ProjectID, t.TagID, t.CreatedBy, t.AssignedTo, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return mapError(err)
}

// UpdateTask overwrites every mutable column of t.
func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, tag_id = $3, status = $4, priority = $5,
			due_date = $6, assigned_to = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`,
		t.Title, t.Description, t.TagID, t.Status, t.Priority, t.DueDate, t.AssignedTo, t.ID,
	).Scan(&t.UpdatedAt)
	return mapError(err)
}

func (s *Store) UpdateTaskStatus(ctx context.Context, t *models.Task) error {
	err := s.db.QueryRowContext(ctx,
		"UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at",
		t.Status, t.ID,
	).Scan(&t.UpdatedAt)
	return mapError(err)
}

func (s *Store) TaskByID(ctx context.Context, id int64) (*models.Task, error) {
	return scanTask(s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id))
}

// FindTasks returns tasks matching f, newest id first.
func (s *Store) FindTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	var (
		where []string
		args  []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.ProjectID != 0 {
		add("project_id", f.ProjectID)
	}
	if f.AssignedTo != 0 {
		add("assigned_to", f.AssignedTo)
	}
	if f.Status != "" {
		add("status", f.Status)
	}
	if f.Priority != "" {
		add("priority", f.Priority)
	}
	if f.TagID != 0 {
		add("tag_id", f.TagID)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, mapError(rows.Err())
}
