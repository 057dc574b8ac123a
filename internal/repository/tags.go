package repository

import (
	"context"

	"devtasker/internal/models"

	"github.com/lib/pq"
)

func (s *Store) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.queryTags(ctx, "SELECT id, name FROM tags ORDER BY name, id")
}

func (s *Store) TagsByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.queryTags(ctx, "SELECT id, name FROM tags WHERE id = ANY($1) ORDER BY id", pq.Array(ids))
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, mapError(err)
		}
		tags = append(tags, t)
	}
	return tags, mapError(rows.Err())
}

func (s *Store) TagByID(ctx context.Context, id int64) (*models.Tag, error) {
	t := &models.Tag{}
	if err := s.db.QueryRowContext(ctx, "SELECT id, name FROM tags WHERE id = $1", id).Scan(&t.ID, &t.Name); err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (s *Store) CreateTag(ctx context.Context, t *models.Tag) error {
	return mapError(s.db.QueryRowContext(ctx,
		"INSERT INTO tags (name) VALUES ($1) RETURNING id", t.Name).Scan(&t.ID))
}

func (s *Store) UpdateTag(ctx context.Context, t *models.Tag) error {
	res, err := s.db.ExecContext(ctx, "UPDATE tags SET name = $1 WHERE id = $2", t.Name, t.ID)
	if err != nil {
		return mapError(err)
	}
	return expectRow(res)
}

// DeleteTag fails with ErrReferenced while tasks still use the tag.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return expectRow(res)
}

func (s *Store) CountTasksWithTag(ctx context.Context, tagID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE tag_id = $1", tagID).Scan(&n)
	return n, mapError(err)
}
