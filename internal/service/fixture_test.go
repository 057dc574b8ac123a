package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"devtasker/internal/apperr"
	"devtasker/internal/models"
	"devtasker/internal/repository/memory"
	"devtasker/internal/service"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	ctx   context.Context
	svc   *service.Service
	store *memory.Store
	pub   *recordingPublisher

	owner, outsider *models.User
	dev, dev2, dev3 *models.User
	admin           *models.User
	bug, feature    *models.Tag
	project         *models.ProjectDetail
}

// newFixture builds a project owned by owner with dev and dev2 as members. dev3 and
// outsider exist but belong to no project.
func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: memory.New(),
		pub:   &recordingPublisher{},
	}
	opts = append([]service.Option{service.WithPublisher(f.pub)}, opts...)
	f.svc = service.New(f.store, service.Config{TokenSecret: "test-secret", BcryptCost: bcrypt.MinCost}, opts...)

	f.owner = f.user(t, "Olivia Owner", models.RoleProductOwner)
	f.outsider = f.user(t, "Oscar Outsider", models.RoleProductOwner)
	f.dev = f.user(t, "Dana Dev", models.RoleDeveloper)
	f.dev2 = f.user(t, "Bob Dev", models.RoleDeveloper)
	f.dev3 = f.user(t, "Carl Dev", models.RoleDeveloper)
	f.admin = f.user(t, "Ada Admin", models.RoleTaskAdmin)

	f.bug = &models.Tag{Name: "Bug"}
	require.NoError(t, f.store.CreateTag(f.ctx, f.bug))
	f.feature = &models.Tag{Name: "Feature"}
	require.NoError(t, f.store.CreateTag(f.ctx, f.feature))

	p, err := f.svc.CreateProject(f.ctx, f.owner, service.ProjectInput{Title: "Apollo"})
	require.NoError(t, err)
	for _, u := range []*models.User{f.dev, f.dev2} {
		p, err = f.svc.AddMember(f.ctx, f.owner, p.ID, service.AddMemberInput{UserID: u.ID})
		require.NoError(t, err)
	}
	f.project = p
	return f
}

func (f *fixture) user(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: strings.ToLower(strings.Fields(name)[0]) + "@example.com", Role: role}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) task(t *testing.T, title string, assignee *models.User) *models.TaskDetail {
	t.Helper()
	d, err := f.svc.CreateTask(f.ctx, f.owner, f.project.ID, service.TaskInput{
		Title:      title,
		TagID:      f.bug.ID,
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)
	return d
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), err.Error())
	return apperr.As(err)
}

func strPtr(s string) *string { return &s }

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(ev models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
