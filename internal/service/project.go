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

func (s *Service) loadProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := s.store.ProjectByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "project")
	}
	return p, nil
}

// memberProject loads a project the actor must be a product owner member of.
func (s *Service) memberProject(ctx context.Context, actor *models.User, id int64) (*models.Project, error) {
	if err := guard.RequireRole(actor, models.RoleProductOwner); err != nil {
		return nil, err
	}
	p, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireProjectMember(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) projectDetail(ctx context.Context, p *models.Project) (*models.ProjectDetail, error) {
	users, err := s.store.UsersByIDs(ctx, p.MemberIDs)
	if err != nil {
		return nil, apperr.Store(err)
	}
	d := &models.ProjectDetail{Project: *p, Users: make([]models.PublicUser, 0, len(users))}
	for i := range users {
		d.Users = append(d.Users, *users[i].Public())
	}
	return d, nil
}

// CreateProject stores a project with its creator as the first member.
func (s *Service) CreateProject(ctx context.Context, actor *models.User, in ProjectInput) (*models.ProjectDetail, error) {
	if err := guard.RequireRole(actor, models.RoleProductOwner); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(in.StartDate.Time) {
		return nil, apperr.Field("end_date", "The end date field must be a date after or equal to start date.")
	}
	p := &models.Project{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := s.store.CreateProject(ctx, p, actor.ID); err != nil {
		return nil, apperr.Store(err)
	}
	logger.AuditLogger.Info("Project created", zap.Int64("project_id", p.ID), zap.Int64("user_id", actor.ID))
	return s.projectDetail(ctx, p)
}

// ListProjects returns the projects the actor belongs to, newest first.
func (s *Service) ListProjects(ctx context.Context, actor *models.User) ([]models.Project, error) {
	if err := guard.RequireRole(actor, models.RoleProductOwner); err != nil {
		return nil, err
	}
	projects, err := s.store.ProjectsByMember(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return projects, nil
}

// ListDevelopers returns the developer members of a project ordered by name.
func (s *Service) ListDevelopers(ctx context.Context, actor *models.User, projectID int64) ([]models.PublicUser, error) {
	p, err := s.memberProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ProjectMembers(ctx, p.ID, models.RoleDeveloper)
	if err != nil {
		return nil, apperr.Store(err)
	}
	devs := make([]models.PublicUser, 0, len(users))
	for i := range users {
		devs = append(devs, *users[i].Public())
	}
	return devs, nil
}

// AddMember links a user to a project. Adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, actor *models.User, projectID int64, in AddMemberInput) (*models.ProjectDetail, error) {
	p, err := s.memberProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.store.UserByID(ctx, in.UserID); err != nil {
		return nil, storeErr(err, "user")
	}
	if err := s.store.AddProjectMember(ctx, p.ID, in.UserID); err != nil {
		return nil, apperr.Store(err)
	}
	if !p.HasMember(in.UserID) {
		p.MemberIDs = append(p.MemberIDs, in.UserID)
	}
	logger.AuditLogger.Info("Project member added",
		zap.Int64("project_id", p.ID), zap.Int64("member_id", in.UserID), zap.Int64("user_id", actor.ID))
	return s.projectDetail(ctx, p)
}
