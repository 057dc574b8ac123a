package service

import (
	"context"
	"errors"

	"devtasker/internal/apperr"
	"devtasker/internal/guard"
	"devtasker/internal/models"
	"devtasker/internal/repository"
	"devtasker/internal/validation"
	"devtasker/pkg/logger"

	"go.uber.org/zap"
)

func (s *Service) loadTask(ctx context.Context, id int64) (*models.Task, error) {
	t, err := s.store.TaskByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "task")
	}
	return t, nil
}

func (s *Service) requireTag(ctx context.Context, id int64) error {
	_, err := s.store.TagByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Field("tag_id", "The selected tag id is invalid.")
	case err != nil:
		return apperr.Store(err)
	}
	return nil
}

// requireAssignable checks that userID names a developer who belongs to p.
func (s *Service) requireAssignable(ctx context.Context, p *models.Project, userID int64) error {
	u, err := s.store.UserByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.InvalidAssignment("The selected user does not exist.")
	case err != nil:
		return apperr.Store(err)
	}
	if u.Role != models.RoleDeveloper {
		return apperr.InvalidAssignment("Tasks can only be assigned to developers.")
	}
	if !p.HasMember(u.ID) {
		return apperr.InvalidAssignment("The developer is not a member of this project.")
	}
	return nil
}

// writeErr maps the store's title constraint back to the title field.
func writeErr(err error) error {
	if repository.IsUniqueViolation(err, repository.ConstraintTaskTitle) {
		return apperr.Field("title", "The title has already been taken.")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("task")
	}
	return apperr.Store(err)
}

func statusOr(s models.Status) models.Status {
	if s == "" {
		return models.StatusCreated
	}
	return s
}

func priorityOr(p models.Priority) models.Priority {
	if p == "" {
		return models.PriorityMedium
	}
	return p
}

// CreateTask lets a product owner member add a task assigned to a developer member.
func (s *Service) CreateTask(ctx context.Context, actor *models.User, projectID int64, in TaskInput) (*models.TaskDetail, error) {
	p, err := s.memberProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireTag(ctx, in.TagID); err != nil {
		return nil, err
	}
	if err := s.requireAssignable(ctx, p, in.AssignedTo); err != nil {
		return nil, err
	}

	t := &models.Task{
		ProjectID:   p.ID,
		TagID:       in.TagID,
		CreatedBy:   actor.ID,
		AssignedTo:  in.AssignedTo,
		Title:       in.Title,
		Description: in.Description,
		Status:      statusOr(in.Status),
		Priority:    priorityOr(in.Priority),
		DueDate:     in.DueDate,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, writeErr(err)
	}
	logger.AuditLogger.Info("Task created", zap.Int64("task_id", t.ID), zap.Int64("user_id", actor.ID))
	return s.publishTask(ctx, models.EventTaskCreated, p, t)
}

// CreatePersonalTask lets a developer member add a task assigned to themselves.
func (s *Service) CreatePersonalTask(ctx context.Context, actor *models.User, projectID int64, in PersonalTaskInput) (*models.TaskDetail, error) {
	if err := guard.RequireRole(actor, models.RoleDeveloper); err != nil {
		return nil, err
	}
	p, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireProjectMember(actor, p); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireTag(ctx, in.TagID); err != nil {
		return nil, err
	}

	t := &models.Task{
		ProjectID:   p.ID,
		TagID:       in.TagID,
		CreatedBy:   actor.ID,
		AssignedTo:  actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      statusOr(in.Status),
		Priority:    priorityOr(in.Priority),
		DueDate:     in.DueDate,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, writeErr(err)
	}
	logger.AuditLogger.Info("Personal task created", zap.Int64("task_id", t.ID), zap.Int64("user_id", actor.ID))
	return s.publishTask(ctx, models.EventTaskCreated, p, t)
}

// UpdateTask replaces every mutable field of a task, including its assignee.
func (s *Service) UpdateTask(ctx context.Context, actor *models.User, taskID int64, in TaskUpdateInput) (*models.TaskDetail, error) {
	if err := guard.RequireRole(actor, models.RoleProductOwner); err != nil {
		return nil, err
	}
	t, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.loadProject(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireProjectMember(actor, p); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireTag(ctx, in.TagID); err != nil {
		return nil, err
	}
	if err := s.requireAssignable(ctx, p, in.AssignedTo); err != nil {
		return nil, err
	}

	t.Title = in.Title
	t.Description = in.Description
	t.TagID = in.TagID
	t.Status = in.Status
	t.Priority = in.Priority
	t.DueDate = in.DueDate
	t.AssignedTo = in.AssignedTo
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, writeErr(err)
	}
	logger.AuditLogger.Info("Task updated", zap.Int64("task_id", t.ID), zap.Int64("user_id", actor.ID))
	return s.publishTask(ctx, models.EventTaskUpdated, p, t)
}

// UpdateStatus lets the assignee set any status value. There is no ordering between
// statuses.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, taskID int64, in StatusInput) (*models.TaskDetail, error) {
	if err := guard.RequireRole(actor, models.RoleDeveloper); err != nil {
		return nil, err
	}
	t, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireAssignee(actor, t); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	t.Status = in.Status
	if err := s.store.UpdateTaskStatus(ctx, t); err != nil {
		return nil, writeErr(err)
	}
	logger.AuditLogger.Info("Task status changed",
		zap.Int64("task_id", t.ID), zap.String("status", string(t.Status)), zap.Int64("user_id", actor.ID))

	p, err := s.loadProject(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}
	return s.publishTask(ctx, models.EventTaskStatusChanged, p, t)
}

// ListForProject returns a project's tasks, newest first, with their full graph.
func (s *Service) ListForProject(ctx context.Context, actor *models.User, projectID int64, q TaskQuery) ([]models.TaskDetail, error) {
	p, err := s.memberProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	tasks, err := s.store.FindTasks(ctx, models.TaskFilter{
		ProjectID: p.ID,
		Status:    q.Status,
		Priority:  q.Priority,
		TagID:     q.TagID,
	})
	if err != nil {
		return nil, apperr.Store(err)
	}
	return s.taskGraph(ctx, tasks)
}

// ListMine returns every task assigned to the developer, newest first.
func (s *Service) ListMine(ctx context.Context, actor *models.User) ([]models.TaskDetail, error) {
	if err := guard.RequireRole(actor, models.RoleDeveloper); err != nil {
		return nil, err
	}
	tasks, err := s.store.FindTasks(ctx, models.TaskFilter{AssignedTo: actor.ID})
	if err != nil {
		return nil, apperr.Store(err)
	}
	return s.taskGraph(ctx, tasks)
}

// publishTask builds the task graph and pushes it to the project's members.
func (s *Service) publishTask(ctx context.Context, typ string, p *models.Project, t *models.Task) (*models.TaskDetail, error) {
	d, err := s.taskDetail(ctx, t)
	if err != nil {
		return nil, err
	}
	s.events.Publish(models.Event{
		Type:      typ,
		ProjectID: p.ID,
		TaskID:    t.ID,
		Data:      d,
		Audience:  p.MemberIDs,
	})
	return d, nil
}
