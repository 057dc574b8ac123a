package repository

import (
	"context"
	"database/sql"

	"devtasker/internal/models"

	"github.com/lib/pq"
)

const projectColumns = "p.id, p.title, p.description, p.start_date, p.end_date, p.created_at"

func scanProject(row scanner) (*models.Project, error) {
	p := &models.Project{}
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// CreateProject inserts the project and its first member in one transaction.
func (s *Store) CreateProject(ctx context.Context, p *models.Project, ownerID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"INSERT INTO projects (title, description, start_date, end_date) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
			p.Title, p.Description, p.StartDate, p.EndDate,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)", p.ID, ownerID); err != nil {
			return mapError(err)
		}
		p.MemberIDs = []int64{ownerID}
		return nil
	})
}

func (s *Store) ProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects p WHERE p.id = $1", id))
	if err != nil {
		return nil, err
	}
	members, err := s.memberIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.MemberIDs = members[id]
	return p, nil
}

// ProjectsByIDs loads projects with their member ids.
func (s *Store) ProjectsByIDs(ctx context.Context, ids []int64) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	projects, err := s.queryProjects(ctx,
		"SELECT "+projectColumns+" FROM projects p WHERE p.id = ANY($1) ORDER BY p.id", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	members, err := s.memberIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].MemberIDs = members[projects[i].ID]
	}
	return projects, nil
}

// ProjectsByMember lists the projects userID belongs to, newest first.
func (s *Store) ProjectsByMember(ctx context.Context, userID int64) ([]models.Project, error) {
	return s.queryProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.id DESC`, userID)
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, mapError(rows.Err())
}

func (s *Store) memberIDs(ctx context.Context, projectIDs []int64) (map[int64][]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT project_id, user_id FROM project_members WHERE project_id = ANY($1) ORDER BY project_id, user_id",
		pq.Array(projectIDs))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	members := make(map[int64][]int64, len(projectIDs))
	for rows.Next() {
		var projectID, userID int64
		if err := rows.Scan(&projectID, &userID); err != nil {
			return nil, mapError(err)
		}
		members[projectID] = append(members[projectID], userID)
	}
	return members, mapError(rows.Err())
}

// AddProjectMember is idempotent.
func (s *Store) AddProjectMember(ctx context.Context, projectID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO project_members (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		projectID, userID)
	return mapError(err)
}

// ProjectMembers lists members ordered by name. An empty role matches every role.
func (s *Store) ProjectMembers(ctx context.Context, projectID int64, role models.Role) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password, u.role, u.created_at
		FROM users u
		JOIN project_members pm ON pm.user_id = u.id
		WHERE pm.project_id = $1 AND ($2::text = '' OR u.role = $2::text)
		ORDER BY u.name, u.id`, projectID, string(role))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, mapError(rows.Err())
}
