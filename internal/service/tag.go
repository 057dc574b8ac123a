package service

import (
	"context"
	"errors"
	"fmt"

	"devtasker/internal/apperr"
	"devtasker/internal/guard"
	"devtasker/internal/models"
	"devtasker/internal/repository"
	"devtasker/internal/validation"
	"devtasker/pkg/logger"

	"go.uber.org/zap"
)

// ListTags is the management listing, ordered by name.
func (s *Service) ListTags(ctx context.Context, actor *models.User) ([]models.Tag, error) {
	if err := guard.RequireRole(actor, models.RoleTaskAdmin); err != nil {
		return nil, err
	}
	tags, err := s.store.Tags(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return tags, nil
}

// LookupTags is the read-only list for any signed-in user. It is served from the
// tag cache when possible.
func (s *Service) LookupTags(ctx context.Context, actor *models.User) ([]models.Tag, error) {
	if actor == nil {
		return nil, apperr.Unauthenticated("You are not logged in or the token has expired.")
	}
	tags, ok, err := s.tags.Tags(ctx)
	cacheWarn("Read cached tags", err)
	if ok {
		return tags, nil
	}
	tags, err = s.store.Tags(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	cacheWarn("Cache tags", s.tags.StoreTags(ctx, tags))
	return tags, nil
}

func tagWriteErr(err error) error {
	if repository.IsUniqueViolation(err, repository.ConstraintTagName) {
		return apperr.Field("name", "The name has already been taken.")
	}
	return storeErr(err, "tag")
}

func (s *Service) CreateTag(ctx context.Context, actor *models.User, in TagInput) (*models.Tag, error) {
	if err := guard.RequireRole(actor, models.RoleTaskAdmin); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t := &models.Tag{Name: in.Name}
	if err := s.store.CreateTag(ctx, t); err != nil {
		return nil, tagWriteErr(err)
	}
	logger.AuditLogger.Info("Tag created", zap.Int64("tag_id", t.ID), zap.Int64("user_id", actor.ID))
	s.tagsChanged(ctx, "created", t)
	return t, nil
}

// UpdateTag renames a tag. Keeping its own name is allowed.
func (s *Service) UpdateTag(ctx context.Context, actor *models.User, id int64, in TagInput) (*models.Tag, error) {
	if err := guard.RequireRole(actor, models.RoleTaskAdmin); err != nil {
		return nil, err
	}
	t, err := s.store.TagByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "tag")
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t.Name = in.Name
	if err := s.store.UpdateTag(ctx, t); err != nil {
		return nil, tagWriteErr(err)
	}
	logger.AuditLogger.Info("Tag updated", zap.Int64("tag_id", t.ID), zap.Int64("user_id", actor.ID))
	s.tagsChanged(ctx, "updated", t)
	return t, nil
}

// DeleteTag refuses to remove a tag that any task still references.
func (s *Service) DeleteTag(ctx context.Context, actor *models.User, id int64) error {
	if err := guard.RequireRole(actor, models.RoleTaskAdmin); err != nil {
		return err
	}
	t, err := s.store.TagByID(ctx, id)
	if err != nil {
		return storeErr(err, "tag")
	}
	n, err := s.store.CountTasksWithTag(ctx, t.ID)
	if err != nil {
		return apperr.Store(err)
	}
	if n > 0 {
		return tagInUse(n)
	}
	if err := s.store.DeleteTag(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return tagInUse(1)
		}
		return storeErr(err, "tag")
	}
	logger.AuditLogger.Info("Tag deleted", zap.Int64("tag_id", t.ID), zap.Int64("user_id", actor.ID))
	s.tagsChanged(ctx, "deleted", t)
	return nil
}

func tagInUse(n int) error {
	return apperr.Conflict("tag", fmt.Sprintf("The tag is used by %d task(s) and cannot be deleted.", n))
}

func (s *Service) tagsChanged(ctx context.Context, action string, t *models.Tag) {
	cacheWarn("Forget cached tags", s.tags.ForgetTags(ctx))
	s.events.Publish(models.Event{
		Type: models.EventTagChanged,
		Data: map[string]any{"action": action, "tag": t},
	})
}
