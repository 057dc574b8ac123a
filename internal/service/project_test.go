package service_test

import (
	"testing"
	"time"

	"devtasker/internal/apperr"
	"devtasker/internal/models"
	"devtasker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectJoinsCreator(t *testing.T) {
	f := newFixture(t)
	start := models.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	end := start.AddDays(30)

	p, err := f.svc.CreateProject(f.ctx, f.outsider, service.ProjectInput{
		Title:       " Hermes ",
		Description: strPtr(""),
		StartDate:   &start,
		EndDate:     &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hermes", p.Title)
	assert.Nil(t, p.Description)
	require.Len(t, p.Users, 1)
	assert.Equal(t, f.outsider.ID, p.Users[0].ID)

	projects, err := f.svc.ListProjects(f.ctx, f.outsider)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, p.ID, projects[0].ID)
}

func TestCreateProjectValidatesDates(t *testing.T) {
	f := newFixture(t)
	start := models.NewDate(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	end := start.AddDays(-1)

	_, err := f.svc.CreateProject(f.ctx, f.owner, service.ProjectInput{Title: "Zeus", StartDate: &start, EndDate: &end})
	e := requireKind(t, err, apperr.KindValidation)
	assert.Contains(t, e.Fields, "end_date")

	same := start
	_, err = f.svc.CreateProject(f.ctx, f.owner, service.ProjectInput{Title: "Zeus", StartDate: &start, EndDate: &same})
	assert.NoError(t, err)

	_, err = f.svc.CreateProject(f.ctx, f.dev, service.ProjectInput{Title: "Zeus"})
	requireKind(t, err, apperr.KindForbidden)
}

func TestListProjectsNewestFirst(t *testing.T) {
	f := newFixture(t)
	second, err := f.svc.CreateProject(f.ctx, f.owner, service.ProjectInput{Title: "Second"})
	require.NoError(t, err)

	projects, err := f.svc.ListProjects(f.ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
	assert.Equal(t, f.project.ID, projects[1].ID)

	none, err := f.svc.ListProjects(f.ctx, f.outsider)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListDevelopersOnlyMembersByName(t *testing.T) {
	f := newFixture(t)

	devs, err := f.svc.ListDevelopers(f.ctx, f.owner, f.project.ID)
	require.NoError(t, err)
	require.Len(t, devs, 2)
	assert.Equal(t, "Bob Dev", devs[0].Name)
	assert.Equal(t, "Dana Dev", devs[1].Name)

	_, err = f.svc.ListDevelopers(f.ctx, f.outsider, f.project.ID)
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.ListDevelopers(f.ctx, f.owner, 31337)
	requireKind(t, err, apperr.KindNotFound)
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.AddMember(f.ctx, f.owner, f.project.ID, service.AddMemberInput{UserID: f.dev.ID})
	require.NoError(t, err)
	assert.Len(t, p.Users, 3, "adding an existing member is a no-op")

	_, err = f.svc.AddMember(f.ctx, f.owner, f.project.ID, service.AddMemberInput{UserID: 8080})
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.svc.AddMember(f.ctx, f.owner, f.project.ID, service.AddMemberInput{})
	requireKind(t, err, apperr.KindValidation)

	_, err = f.svc.AddMember(f.ctx, f.outsider, f.project.ID, service.AddMemberInput{UserID: f.outsider.ID})
	requireKind(t, err, apperr.KindForbidden)

	p, err = f.svc.AddMember(f.ctx, f.owner, f.project.ID, service.AddMemberInput{UserID: f.dev3.ID})
	require.NoError(t, err)
	assert.Len(t, p.Users, 4)

	_, err = f.svc.CreateTask(f.ctx, f.owner, f.project.ID, service.TaskInput{Title: "Now allowed", TagID: f.bug.ID, AssignedTo: f.dev3.ID})
	assert.NoError(t, err)
}
