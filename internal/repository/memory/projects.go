package memory

import (
	"context"
	"sort"

	"devtasker/internal/models"
	"devtasker/internal/repository"
)

func (s *Store) CreateProject(_ context.Context, p *models.Project, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.next("projects")
	p.CreatedAt = s.now()
	p.MemberIDs = []int64{ownerID}
	s.projects[p.ID] = *p
	s.members[memberKey{p.ID, ownerID}] = struct{}{}
	return nil
}

// withMembers must be called with the lock held.
func (s *Store) withMembers(p models.Project) models.Project {
	p.MemberIDs = nil
	for k := range s.members {
		if k.projectID == p.ID {
			p.MemberIDs = append(p.MemberIDs, k.userID)
		}
	}
	sort.Slice(p.MemberIDs, func(i, j int) bool { return p.MemberIDs[i] < p.MemberIDs[j] })
	return p
}

func (s *Store) ProjectByID(_ context.Context, id int64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = s.withMembers(p)
	return &p, nil
}

func (s *Store) ProjectsByIDs(_ context.Context, ids []int64) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var projects []models.Project
	for _, id := range uniqueSorted(ids) {
		if p, ok := s.projects[id]; ok {
			projects = append(projects, s.withMembers(p))
		}
	}
	return projects, nil
}

func (s *Store) ProjectsByMember(_ context.Context, userID int64) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := []models.Project{}
	for k := range s.members {
		if k.userID == userID {
			projects = append(projects, s.projects[k.projectID])
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return projects, nil
}

func (s *Store) AddProjectMember(_ context.Context, projectID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		return repository.ErrReferenced
	}
	if _, ok := s.users[userID]; !ok {
		return repository.ErrReferenced
	}
	s.members[memberKey{projectID, userID}] = struct{}{}
	return nil
}

func (s *Store) ProjectMembers(_ context.Context, projectID int64, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for k := range s.members {
		if k.projectID != projectID {
			continue
		}
		u := s.users[k.userID]
		if role == "" || u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}
