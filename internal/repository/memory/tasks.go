package memory

import (
	"context"
	"fmt"
	"sort"

	"devtasker/internal/models"
	"devtasker/internal/repository"
)

func (s *Store) Tags(_ context.Context) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Name != tags[j].Name {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].ID < tags[j].ID
	})
	return tags, nil
}

func (s *Store) TagsByIDs(_ context.Context, ids []int64) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tags []models.Tag
	for _, id := range uniqueSorted(ids) {
		if t, ok := s.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (s *Store) TagByID(_ context.Context, id int64) (*models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tags[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

// tagNameTaken must be called with the lock held.
func (s *Store) tagNameTaken(name string, exceptID int64) bool {
	for _, t := range s.tags {
		if t.Name == name && t.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateTag(_ context.Context, t *models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tagNameTaken(t.Name, 0) {
		return &repository.UniqueViolation{Constraint: repository.ConstraintTagName}
	}
	t.ID = s.next("tags")
	s.tags[t.ID] = *t
	return nil
}

func (s *Store) UpdateTag(_ context.Context, t *models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[t.ID]; !ok {
		return repository.ErrNotFound
	}
	if s.tagNameTaken(t.Name, t.ID) {
		return &repository.UniqueViolation{Constraint: repository.ConstraintTagName}
	}
	s.tags[t.ID] = *t
	return nil
}

func (s *Store) DeleteTag(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return repository.ErrNotFound
	}
	for _, t := range s.tasks {
		if t.TagID == id {
			return fmt.Errorf("%w: tasks_tag_id_fkey", repository.ErrReferenced)
		}
	}
	delete(s.tags, id)
	return nil
}

func (s *Store) CountTasksWithTag(_ context.Context, tagID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.tasks {
		if t.TagID == tagID {
			n++
		}
	}
	return n, nil
}

// checkTask enforces the foreign keys and the per-project title constraint. It must
// be called with the lock held.
func (s *Store) checkTask(t *models.Task) error {
	if _, ok := s.projects[t.ProjectID]; !ok {
		return fmt.Errorf("%w: tasks_project_id_fkey", repository.ErrReferenced)
	}
	if _, ok := s.tags[t.TagID]; !ok {
		return fmt.Errorf("%w: tasks_tag_id_fkey", repository.ErrReferenced)
	}
	for _, id := range []int64{t.CreatedBy, t.AssignedTo} {
		if _, ok := s.users[id]; !ok {
			return fmt.Errorf("%w: tasks_user_fkey", repository.ErrReferenced)
		}
	}
	key := taskTitleKey{t.ProjectID, t.Title}
	for _, other := range s.tasks {
		if other.ID != t.ID && (taskTitleKey{other.ProjectID, other.Title}) == key {
			return &repository.UniqueViolation{Constraint: repository.ConstraintTaskTitle}
		}
	}
	return nil
}

func (s *Store) CreateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTask(t); err != nil {
		return err
	}
	t.ID = s.next("tasks")
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) UpdateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.checkTask(t); err != nil {
		return err
	}
	current.Title = t.Title
	current.Description = t.Description
	current.TagID = t.TagID
	current.Status = t.Status
	current.Priority = t.Priority
	current.DueDate = t.DueDate
	current.AssignedTo = t.AssignedTo
	current.UpdatedAt = s.now()
	s.tasks[t.ID] = current
	*t = current
	return nil
}

func (s *Store) UpdateTaskStatus(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Status = t.Status
	current.UpdatedAt = s.now()
	s.tasks[t.ID] = current
	t.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) TaskByID(_ context.Context, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Store) FindTasks(_ context.Context, f models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if f.Match(&t) {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	return tasks, nil
}

func (s *Store) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[c.TaskID]; !ok {
		return fmt.Errorf("%w: comments_task_id_fkey", repository.ErrReferenced)
	}
	c.ID = s.next("comments")
	c.CreatedAt = s.now()
	s.comments[c.ID] = *c
	return nil
}

func (s *Store) CommentByID(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Store) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) CommentsByTaskIDs(_ context.Context, taskIDs []int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[int64]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = struct{}{}
	}
	var comments []models.Comment
	for _, c := range s.comments {
		if _, ok := wanted[c.TaskID]; ok {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}
