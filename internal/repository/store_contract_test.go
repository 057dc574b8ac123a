package repository_test

import (
	"context"
	"testing"
	"time"

	"devtasker/internal/auth"
	"devtasker/internal/models"
	"devtasker/internal/repository"
	"devtasker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// runStoreContract checks the behavior every store implementation must share.
// newStore must return an empty store on each call.
func runStoreContract(t *testing.T, newStore func(t *testing.T) service.Store) {
	t.Run("users", func(t *testing.T) {
		ctx, s := context.Background(), newStore(t)
		u := &models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Role: models.RoleDeveloper}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.NotZero(t, u.ID)

		err := s.CreateUser(ctx, &models.User{Name: "Dana 2", Email: "dana@example.com", PasswordHash: "x", Role: models.RoleDeveloper})
		assert.True(t, repository.IsUniqueViolation(err, repository.ConstraintUserEmail))

		got, err := s.UserByEmail(ctx, "dana@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = s.UserByID(ctx, u.ID+100)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		users, err := s.UsersByIDs(ctx, []int64{u.ID, u.ID, u.ID + 100})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("sessions", func(t *testing.T) {
		ctx, s := context.Background(), newStore(t)
		u := &models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Role: models.RoleDeveloper}
		require.NoError(t, s.CreateUser(ctx, u))

		now := time.Now().UTC().Truncate(time.Second)
		sess := &models.Session{ID: uuid.NewString(), UserID: u.ID, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
		require.NoError(t, s.CreateSession(ctx, sess))

		err := s.CreateSession(ctx, &models.Session{ID: uuid.NewString(), UserID: u.ID + 100, IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
		assert.ErrorIs(t, err, repository.ErrReferenced)

		got, err := s.SessionByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, got.Active(now))

		require.NoError(t, s.RevokeSession(ctx, sess.ID, now))
		assert.ErrorIs(t, s.RevokeSession(ctx, sess.ID, now), repository.ErrNotFound)

		got, err = s.SessionByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, got.Active(now))

		_, err = s.SessionByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("projects and members", func(t *testing.T) {
		ctx, s := context.Background(), newStore(t)
		owner := &models.User{Name: "Olivia", Email: "olivia@example.com", PasswordHash: "x", Role: models.RoleProductOwner}
		bob := &models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: models.RoleDeveloper}
		ann := &models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "x", Role: models.RoleDeveloper}
		for _, u := range []*models.User{owner, bob, ann} {
			require.NoError(t, s.CreateUser(ctx, u))
		}

		first := &models.Project{Title: "Apollo"}
		require.NoError(t, s.CreateProject(ctx, first, owner.ID))
		second := &models.Project{Title: "Gemini"}
		require.NoError(t, s.CreateProject(ctx, second, owner.ID))
		assert.Equal(t, []int64{owner.ID}, first.MemberIDs)

		require.NoError(t, s.AddProjectMember(ctx, first.ID, bob.ID))
		require.NoError(t, s.AddProjectMember(ctx, first.ID, bob.ID))
		require.NoError(t, s.AddProjectMember(ctx, first.ID, ann.ID))
		assert.ErrorIs(t, s.AddProjectMember(ctx, first.ID, ann.ID+100), repository.ErrReferenced)

		p, err := s.ProjectByID(ctx, first.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{owner.ID, bob.ID, ann.ID}, p.MemberIDs)

		devs, err := s.ProjectMembers(ctx, first.ID, models.RoleDeveloper)
		require.NoError(t, err)
		require.Len(t, devs, 2)
		assert.Equal(t, "Ann", devs[0].Name)
		assert.Equal(t, "Bob", devs[1].Name)

		mine, err := s.ProjectsByMember(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, second.ID, mine[0].ID)

		_, err = s.ProjectByID(ctx, second.ID+100)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("tasks tags and comments", func(t *testing.T) {
		ctx, s := context.Background(), newStore(t)
		owner := &models.User{Name: "Olivia", Email: "olivia@example.com", PasswordHash: "x", Role: models.RoleProductOwner}
		dev := &models.User{Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Role: models.RoleDeveloper}
		for _, u := range []*models.User{owner, dev} {
			require.NoError(t, s.CreateUser(ctx, u))
		}
		p := &models.Project{Title: "Apollo"}
		require.NoError(t, s.CreateProject(ctx, p, owner.ID))

		bug := &models.Tag{Name: "Bug"}
		require.NoError(t, s.CreateTag(ctx, bug))
		chore := &models.Tag{Name: "Chore"}
		require.NoError(t, s.CreateTag(ctx, chore))
		err := s.CreateTag(ctx, &models.Tag{Name: "Bug"})
		assert.True(t, repository.IsUniqueViolation(err, repository.ConstraintTagName))

		due := models.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		newTask := func(title string, status models.Status) *models.Task {
			return &models.Task{
				ProjectID: p.ID, TagID: bug.ID, CreatedBy: owner.ID, AssignedTo: dev.ID,
				Title: title, Status: status, Priority: models.PriorityMedium, DueDate: &due,
			}
		}
		first := newTask("Login form", models.StatusCreated)
		require.NoError(t, s.CreateTask(ctx, first))
		second := newTask("Signup form", models.StatusDone)
		require.NoError(t, s.CreateTask(ctx, second))

		err = s.CreateTask(ctx, newTask("Login form", models.StatusCreated))
		assert.True(t, repository.IsUniqueViolation(err, repository.ConstraintTaskTitle))

		second.Title = "Login form"
		err = s.UpdateTask(ctx, second)
		assert.True(t, repository.IsUniqueViolation(err, repository.ConstraintTaskTitle))

		first.Status = models.StatusStarted
		require.NoError(t, s.UpdateTaskStatus(ctx, first))
		got, err := s.TaskByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusStarted, got.Status)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, due.String(), got.DueDate.String())

		all, err := s.FindTasks(ctx, models.TaskFilter{ProjectID: p.ID})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)

		started, err := s.FindTasks(ctx, models.TaskFilter{AssignedTo: dev.ID, Status: models.StatusStarted})
		require.NoError(t, err)
		require.Len(t, started, 1)
		assert.Equal(t, first.ID, started[0].ID)

		n, err := s.CountTasksWithTag(ctx, bug.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, s.DeleteTag(ctx, bug.ID), repository.ErrReferenced)
		require.NoError(t, s.DeleteTag(ctx, chore.ID))
		assert.ErrorIs(t, s.DeleteTag(ctx, chore.ID), repository.ErrNotFound)

		c1 := &models.Comment{TaskID: first.ID, UserID: dev.ID, Content: "first"}
		require.NoError(t, s.CreateComment(ctx, c1))
		c2 := &models.Comment{TaskID: first.ID, UserID: dev.ID, Content: "second"}
		require.NoError(t, s.CreateComment(ctx, c2))

		comments, err := s.CommentsByTaskIDs(ctx, []int64{first.ID, second.ID})
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, c1.ID, comments[0].ID)

		require.NoError(t, s.DeleteComment(ctx, c1.ID))
		assert.ErrorIs(t, s.DeleteComment(ctx, c1.ID), repository.ErrNotFound)
		_, err = s.CommentByID(ctx, c1.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("seed demo data twice", func(t *testing.T) {
		ctx, s := context.Background(), newStore(t)
		hasher := auth.NewPasswordHasher(bcrypt.MinCost)
		require.NoError(t, repository.SeedDemoData(ctx, s, hasher))
		require.NoError(t, repository.SeedDemoData(ctx, s, hasher))

		tags, err := s.Tags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 3)

		u, err := s.UserByEmail(ctx, "andrea@devtasker.com")
		require.NoError(t, err)
		assert.Equal(t, models.RoleProductOwner, u.Role)
		assert.True(t, hasher.Verify("password", u.PasswordHash))
	})
}
