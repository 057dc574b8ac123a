package models

import (
	"time"
)

// Role is the closed set of user roles. Adding a role means adding a constant here
// and a case to every switch over Role.
type Role string

const (
	RoleProductOwner Role = "product_owner"
	RoleDeveloper    Role = "developer"
	RoleTaskAdmin    Role = "taskadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleProductOwner, RoleDeveloper, RoleTaskAdmin:
		return true
	}
	return false
}

// Status of a task. Any value may follow any other.
type Status string

const (
	StatusCreated    Status = "created"
	StatusStarted    Status = "started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusCreated, StatusStarted, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the profile exposed to other users.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Session backs one bearer token. Revoking it invalidates only that token.
type Session struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"user_id"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   *Date     `json:"start_date"`
	EndDate     *Date     `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`

	// MemberIDs is filled by the store on single-project lookups.
	MemberIDs []int64 `json:"-"`
}

func (p *Project) HasMember(userID int64) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Task struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	TagID       int64     `json:"tag_id"`
	CreatedBy   int64     `json:"created_by"`
	AssignedTo  int64     `json:"assigned_to"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     *Date     `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskFilter selects tasks. Zero values match everything.
type TaskFilter struct {
	ProjectID  int64
	AssignedTo int64
	Status     Status
	Priority   Priority
	TagID      int64
}

func (f TaskFilter) Match(t *Task) bool {
	switch {
	case f.ProjectID != 0 && t.ProjectID != f.ProjectID:
		return false
	case f.AssignedTo != 0 && t.AssignedTo != f.AssignedTo:
		return false
	case f.Status != "" && t.Status != f.Status:
		return false
	case f.Priority != "" && t.Priority != f.Priority:
		return false
	case f.TagID != 0 && t.TagID != f.TagID:
		return false
	}
	return true
}
