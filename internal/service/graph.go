package service

import (
	"context"

	"devtasker/internal/apperr"
	"devtasker/internal/models"
)

// taskGraph attaches project with members, tag, creator, assignee and comments with
// authors to each task. Related rows are loaded in one batch per table and the
// input order is kept.
func (s *Service) taskGraph(ctx context.Context, tasks []models.Task) ([]models.TaskDetail, error) {
	details := make([]models.TaskDetail, 0, len(tasks))
	if len(tasks) == 0 {
		return details, nil
	}

	var projectIDs, tagIDs, taskIDs, userIDs []int64
	for _, t := range tasks {
		projectIDs = append(projectIDs, t.ProjectID)
		tagIDs = append(tagIDs, t.TagID)
		taskIDs = append(taskIDs, t.ID)
		userIDs = append(userIDs, t.CreatedBy, t.AssignedTo)
	}

	projects, err := s.store.ProjectsByIDs(ctx, projectIDs)
	if err != nil {
		return nil, apperr.Store(err)
	}
	for _, p := range projects {
		userIDs = append(userIDs, p.MemberIDs...)
	}
	comments, err := s.store.CommentsByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, apperr.Store(err)
	}
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.store.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperr.Store(err)
	}
	tags, err := s.store.TagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, apperr.Store(err)
	}

	userByID := make(map[int64]*models.PublicUser, len(users))
	for i := range users {
		userByID[users[i].ID] = users[i].Public()
	}
	tagByID := make(map[int64]*models.Tag, len(tags))
	for i := range tags {
		tagByID[tags[i].ID] = &tags[i]
	}
	projectByID := make(map[int64]*models.ProjectDetail, len(projects))
	for _, p := range projects {
		pd := &models.ProjectDetail{Project: p, Users: make([]models.PublicUser, 0, len(p.MemberIDs))}
		for _, id := range p.MemberIDs {
			if u, ok := userByID[id]; ok {
				pd.Users = append(pd.Users, *u)
			}
		}
		projectByID[p.ID] = pd
	}
	commentsByTask := make(map[int64][]models.CommentDetail, len(tasks))
	for _, c := range comments {
		commentsByTask[c.TaskID] = append(commentsByTask[c.TaskID], models.CommentDetail{
			ID:        c.ID,
			Content:   c.Content,
			User:      userByID[c.UserID],
			CreatedAt: c.CreatedAt,
		})
	}

	for _, t := range tasks {
		cs := commentsByTask[t.ID]
		if cs == nil {
			cs = []models.CommentDetail{}
		}
		details = append(details, models.TaskDetail{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
			Project:     projectByID[t.ProjectID],
			Tag:         tagByID[t.TagID],
			CreatedBy:   userByID[t.CreatedBy],
			AssignedTo:  userByID[t.AssignedTo],
			Comments:    cs,
		})
	}
	return details, nil
}

func (s *Service) taskDetail(ctx context.Context, t *models.Task) (*models.TaskDetail, error) {
	details, err := s.taskGraph(ctx, []models.Task{*t})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}
