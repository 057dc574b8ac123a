package service

import (
	"context"
	"sort"

	"devtasker/internal/apperr"
	"devtasker/internal/models"
)

// dueSoonDays is the inclusive look-ahead window of the due_soon_7d card.
const dueSoonDays = 7

// Aggregate computes the metrics snapshot of tasks as seen on day today. Developer
// load rows carry only DeveloperID; profiles are attached by the caller.
func Aggregate(tasks []models.Task, today models.Date) models.MetricsSnapshot {
	horizon := today.AddDays(dueSoonDays)
	byStatus := make(map[models.Status]int, len(models.Statuses))
	byPriority := make(map[models.Priority]int, len(models.Priorities))
	load := map[int64]int{}

	var cards models.MetricsCards
	for _, t := range tasks {
		cards.TotalTasks++
		byStatus[t.Status]++
		byPriority[t.Priority]++
		if t.Status == models.StatusDone {
			cards.DoneTasks++
			continue
		}
		cards.OpenTasks++
		if t.AssignedTo != 0 {
			load[t.AssignedTo]++
		}
		if t.DueDate == nil {
			continue
		}
		switch due := t.DueDate.Time; {
		case due.Before(today.Time):
			cards.Overdue++
		case !due.After(horizon.Time):
			cards.DueSoon++
		}
	}

	charts := models.MetricsCharts{
		StatusPie:     make([]models.KeyValue, 0, len(models.Statuses)),
		PriorityBar:   make([]models.KeyValue, 0, len(models.Priorities)),
		DeveloperLoad: make([]models.DeveloperLoad, 0, len(load)),
	}
	for _, st := range models.Statuses {
		charts.StatusPie = append(charts.StatusPie, models.KeyValue{Key: string(st), Value: byStatus[st]})
	}
	for _, pr := range models.Priorities {
		charts.PriorityBar = append(charts.PriorityBar, models.KeyValue{Key: string(pr), Value: byPriority[pr]})
	}
	for id, n := range load {
		charts.DeveloperLoad = append(charts.DeveloperLoad, models.DeveloperLoad{DeveloperID: id, OpenTasks: n})
	}
	sort.Slice(charts.DeveloperLoad, func(i, j int) bool {
		a, b := charts.DeveloperLoad[i], charts.DeveloperLoad[j]
		if a.OpenTasks != b.OpenTasks {
			return a.OpenTasks > b.OpenTasks
		}
		return a.DeveloperID < b.DeveloperID
	})

	return models.MetricsSnapshot{Cards: cards, Charts: charts}
}

// Metrics computes the snapshot of one project for a product owner member. "Today"
// is read from the service clock once per call.
func (s *Service) Metrics(ctx context.Context, actor *models.User, projectID int64) (*models.MetricsSnapshot, error) {
	p, err := s.memberProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.FindTasks(ctx, models.TaskFilter{ProjectID: p.ID})
	if err != nil {
		return nil, apperr.Store(err)
	}

	snap := Aggregate(tasks, models.NewDate(s.now()))
	snap.ProjectID = p.ID

	ids := make([]int64, 0, len(snap.Charts.DeveloperLoad))
	for _, row := range snap.Charts.DeveloperLoad {
		ids = append(ids, row.DeveloperID)
	}
	users, err := s.store.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Store(err)
	}
	profiles := make(map[int64]*models.PublicUser, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Public()
	}
	for i := range snap.Charts.DeveloperLoad {
		snap.Charts.DeveloperLoad[i].Developer = profiles[snap.Charts.DeveloperLoad[i].DeveloperID]
	}
	return &snap, nil
}
