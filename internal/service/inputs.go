package service

import (
	"strings"

	"devtasker/internal/models"
	"devtasker/internal/validation"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,max=72"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

type ProjectInput struct {
	Title       string       `json:"title" validate:"required,min=2,max=120"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	StartDate   *models.Date `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`
}

func (in *ProjectInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = validation.Trim(in.Description)
}

type AddMemberInput struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// TaskInput is the product owner's create payload.
type TaskInput struct {
	Title       string          `json:"title" validate:"required,min=2,max=160"`
	Description *string         `json:"description" validate:"omitempty,max=3000"`
	TagID       int64           `json:"tag_id" validate:"required,gt=0"`
	AssignedTo  int64           `json:"assigned_to" validate:"required,gt=0"`
	Status      models.Status   `json:"status" validate:"omitempty,oneof=created started in_progress done"`
	Priority    models.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *models.Date    `json:"due_date"`
}

func (in *TaskInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = validation.Trim(in.Description)
}

// PersonalTaskInput has no assignee: a personal task always belongs to its creator.
type PersonalTaskInput struct {
	Title       string          `json:"title" validate:"required,min=2,max=160"`
	Description *string         `json:"description" validate:"omitempty,max=3000"`
	TagID       int64           `json:"tag_id" validate:"required,gt=0"`
	Status      models.Status   `json:"status" validate:"omitempty,oneof=created started in_progress done"`
	Priority    models.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *models.Date    `json:"due_date"`
}

func (in *PersonalTaskInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = validation.Trim(in.Description)
}

// TaskUpdateInput replaces every mutable field. Omitted description or due date
// clear the stored value.
type TaskUpdateInput struct {
	Title       string          `json:"title" validate:"required,min=2,max=160"`
	Description *string         `json:"description" validate:"omitempty,max=3000"`
	TagID       int64           `json:"tag_id" validate:"required,gt=0"`
	Status      models.Status   `json:"status" validate:"required,oneof=created started in_progress done"`
	Priority    models.Priority `json:"priority" validate:"required,oneof=low medium high"`
	DueDate     *models.Date    `json:"due_date"`
	AssignedTo  int64           `json:"assigned_to" validate:"required,gt=0"`
}

func (in *TaskUpdateInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = validation.Trim(in.Description)
}

type StatusInput struct {
	Status models.Status `json:"status" validate:"required,oneof=created started in_progress done"`
}

// TaskQuery holds the optional exact-match filters of a project task list.
type TaskQuery struct {
	Status   models.Status   `json:"status" validate:"omitempty,oneof=created started in_progress done"`
	Priority models.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	TagID    int64           `json:"tag_id" validate:"omitempty,gt=0"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

func (in *CommentInput) normalize() {
	in.Content = strings.TrimSpace(in.Content)
}

type TagInput struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

func (in *TagInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
}
