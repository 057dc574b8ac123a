package repository

import (
	"context"

	"devtasker/internal/models"

	"github.com/lib/pq"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO comments (task_id, user_id, content) VALUES ($1, $2, $3) RETURNING id, created_at",
		c.TaskID, c.UserID, c.Content,
	).Scan(&c.ID, &c.CreatedAt)
	return mapError(err)
}

func (s *Store) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, task_id, user_id, content, created_at FROM comments WHERE id = $1", id,
	).Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return expectRow(res)
}

// CommentsByTaskIDs returns comments oldest first.
func (s *Store) CommentsByTaskIDs(ctx context.Context, taskIDs []int64) ([]models.Comment, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, task_id, user_id, content, created_at FROM comments WHERE task_id = ANY($1) ORDER BY id",
		pq.Array(taskIDs))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		comments = append(comments, c)
	}
	return comments, mapError(rows.Err())
}
