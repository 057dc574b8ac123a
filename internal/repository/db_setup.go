package repository

import (
	"context"
	"database/sql"
	"fmt"

	"devtasker/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(150) NOT NULL,
    password VARCHAR(255) NOT NULL,
    role VARCHAR(32) NOT NULL CHECK (role IN ('product_owner', 'developer', 'taskadmin')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    issued_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    revoked_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);

CREATE TABLE IF NOT EXISTS projects (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(120) NOT NULL,
    description TEXT,
    start_date DATE,
    end_date DATE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT projects_dates_check CHECK (start_date IS NULL OR end_date IS NULL OR end_date >= start_date)
);

CREATE TABLE IF NOT EXISTS project_members (
    project_id BIGINT NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (project_id, user_id)
);
CREATE INDEX IF NOT EXISTS project_members_user_id_idx ON project_members (user_id);

CREATE TABLE IF NOT EXISTS tags (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    CONSTRAINT tags_name_key UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    project_id BIGINT NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
    tag_id BIGINT NOT NULL REFERENCES tags (id) ON DELETE RESTRICT,
    created_by BIGINT NOT NULL REFERENCES users (id),
    assigned_to BIGINT NOT NULL REFERENCES users (id),
    title VARCHAR(160) NOT NULL,
    description TEXT,
    status VARCHAR(20) NOT NULL DEFAULT 'created',
    priority VARCHAR(10) NOT NULL DEFAULT 'medium',
    due_date DATE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT tasks_project_title_unique UNIQUE (project_id, title)
);
CREATE INDEX IF NOT EXISTS tasks_assigned_to_idx ON tasks (assigned_to);

CREATE TABLE IF NOT EXISTS comments (
    id BIGSERIAL PRIMARY KEY,
    task_id BIGINT NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users (id),
    content VARCHAR(1000) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS comments_task_id_idx ON comments (task_id);
`

// CreateTableIfNotExists applies the schema. It is safe to run on every start.
func CreateTableIfNotExists(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// DeleteAllTable drops every table. Used by integration tests.
func DeleteAllTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    DROP TABLE IF EXISTS comments;
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS tags;
    DROP TABLE IF EXISTS project_members;
    DROP TABLE IF EXISTS projects;
    DROP TABLE IF EXISTS sessions;
    DROP TABLE IF EXISTS users;
    `)
	if err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// Hasher turns a plain password into a stored hash.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedStore is the subset of a store needed to seed demo data.
type SeedStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	CreateTag(ctx context.Context, t *models.Tag) error
}

type seedUser struct {
	name  string
	email string
	role  models.Role
}

var demoUsers = []seedUser{
	{"Admin", "admin@devtasker.com", models.RoleTaskAdmin},
	{"Andrea", "andrea@devtasker.com", models.RoleProductOwner},
	{"Jovana", "jovana@devtasker.com", models.RoleDeveloper},
	{"Aleksandra", "aleksandra@devtasker.com", models.RoleDeveloper},
}

var demoTags = []string{"Bug", "Feature", "Chore"}

// SeedDemoData creates the demo accounts (password "password") and tags. Rows that
// already exist are left untouched.
func SeedDemoData(ctx context.Context, store SeedStore, hasher Hasher) error {
	hash, err := hasher.Hash("password")
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	for _, su := range demoUsers {
		u := &models.User{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
		if err := store.CreateUser(ctx, u); err != nil && !IsUniqueViolation(err, ConstraintUserEmail) {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
	}
	for _, name := range demoTags {
		if err := store.CreateTag(ctx, &models.Tag{Name: name}); err != nil && !IsUniqueViolation(err, ConstraintTagName) {
			return fmt.Errorf("seed tag %s: %w", name, err)
		}
	}
	return nil
}
