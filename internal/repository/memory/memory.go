// Package memory is an in-process store with the same constraint semantics as the
// PostgreSQL store. It backs tests and the STORE_DRIVER=memory demo mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"devtasker/internal/models"
	"devtasker/internal/repository"
)

type memberKey struct {
	projectID int64
	userID    int64
}

type taskTitleKey struct {
	projectID int64
	title     string
}

type Store struct {
	mu sync.RWMutex

	seq      map[string]int64
	now      func() time.Time
	users    map[int64]models.User
	sessions map[string]models.Session
	projects map[int64]models.Project
	members  map[memberKey]struct{}
	tags     map[int64]models.Tag
	tasks    map[int64]models.Task
	comments map[int64]models.Comment
}

func New() *Store {
	return &Store{
		seq:      map[string]int64{},
		now:      time.Now,
		users:    map[int64]models.User{},
		sessions: map[string]models.Session{},
		projects: map[int64]models.Project{},
		members:  map[memberKey]struct{}{},
		tags:     map[int64]models.Tag{},
		tasks:    map[int64]models.Task{},
		comments: map[int64]models.Comment{},
	}
}

func (s *Store) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return &repository.UniqueViolation{Constraint: repository.ConstraintUserEmail}
		}
	}
	u.ID = s.next("users")
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UsersByIDs(_ context.Context, ids []int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []models.User
	for _, id := range uniqueSorted(ids) {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *Store) CreateSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return &repository.UniqueViolation{Constraint: "sessions_pkey"}
	}
	if _, ok := s.users[sess.UserID]; !ok {
		return fmt.Errorf("%w: sessions_user_id_fkey", repository.ErrReferenced)
	}
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *Store) SessionByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) RevokeSession(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.RevokedAt != nil {
		return repository.ErrNotFound
	}
	sess.RevokedAt = &at
	s.sessions[id] = sess
	return nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
