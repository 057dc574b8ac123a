package service

import (
	"context"

	"devtasker/internal/apperr"
	"devtasker/internal/guard"
	"devtasker/internal/models"
	"devtasker/internal/validation"
	"devtasker/pkg/logger"

	"go.uber.org/zap"
)

// AddComment stores a comment by the task's current assignee.
func (s *Service) AddComment(ctx context.Context, actor *models.User, taskID int64, in CommentInput) (*models.CommentDetail, error) {
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
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c := &models.Comment{TaskID: t.ID, UserID: actor.ID, Content: in.Content}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, apperr.Store(err)
	}
	logger.AuditLogger.Info("Comment added", zap.Int64("comment_id", c.ID), zap.Int64("task_id", t.ID), zap.Int64("user_id", actor.ID))

	d := &models.CommentDetail{ID: c.ID, Content: c.Content, User: actor.Public(), CreatedAt: c.CreatedAt}
	s.publishComment(ctx, models.EventCommentAdded, t, d)
	return d, nil
}

// DeleteComment requires authorship and, separately, that the author is still the
// task's assignee. A comment on a reassigned task can no longer be removed by its
// author.
func (s *Service) DeleteComment(ctx context.Context, actor *models.User, commentID int64) error {
	if err := guard.RequireRole(actor, models.RoleDeveloper); err != nil {
		return err
	}
	c, err := s.store.CommentByID(ctx, commentID)
	if err != nil {
		return storeErr(err, "comment")
	}
	t, err := s.loadTask(ctx, c.TaskID)
	if err != nil {
		return err
	}
	if err := guard.All(guard.Author(actor, c), guard.Assignee(actor, t)); err != nil {
		return err
	}

	if err := s.store.DeleteComment(ctx, c.ID); err != nil {
		return storeErr(err, "comment")
	}
	logger.AuditLogger.Info("Comment deleted", zap.Int64("comment_id", c.ID), zap.Int64("user_id", actor.ID))
	s.publishComment(ctx, models.EventCommentDeleted, t, &models.CommentDetail{
		ID:        c.ID,
		Content:   c.Content,
		User:      actor.Public(),
		CreatedAt: c.CreatedAt,
	})
	return nil
}

// publishComment resolves the project audience. Failing to load it only drops the
// event.
func (s *Service) publishComment(ctx context.Context, typ string, t *models.Task, d *models.CommentDetail) {
	p, err := s.store.ProjectByID(ctx, t.ProjectID)
	if err != nil {
		logger.ErrorLogger.Warn("Load event audience", zap.Int64("project_id", t.ProjectID), zap.Error(err))
		return
	}
	s.events.Publish(models.Event{
		Type:      typ,
		ProjectID: p.ID,
		TaskID:    t.ID,
		Data:      d,
		Audience:  p.MemberIDs,
	})
}
