package guard

import (
	"testing"

	"devtasker/internal/apperr"
	"devtasker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = &models.User{ID: 1, Role: models.RoleProductOwner}
	dev   = &models.User{ID: 2, Role: models.RoleDeveloper}
	admin = &models.User{ID: 3, Role: models.RoleTaskAdmin}
	dev2  = &models.User{ID: 4, Role: models.RoleDeveloper}
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		role models.Role
		kind apperr.Kind
		ok   bool
	}{
		{"owner as owner", owner, models.RoleProductOwner, 0, true},
		{"developer as owner", dev, models.RoleProductOwner, apperr.KindForbidden, false},
		{"admin as developer", admin, models.RoleDeveloper, apperr.KindForbidden, false},
		{"owner as admin", owner, models.RoleTaskAdmin, apperr.KindForbidden, false},
		{"anonymous", nil, models.RoleDeveloper, apperr.KindUnauthenticated, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.user, tt.role)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestRequireProjectMember(t *testing.T) {
	p := &models.Project{ID: 10, MemberIDs: []int64{1, 2}}

	assert.NoError(t, RequireProjectMember(owner, p))
	assert.NoError(t, RequireProjectMember(dev, p))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireProjectMember(admin, p)))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireProjectMember(owner, nil)))
}

func TestRequireAssigneeAndAuthor(t *testing.T) {
	task := &models.Task{ID: 5, AssignedTo: dev.ID}
	comment := &models.Comment{ID: 7, UserID: dev.ID}

	assert.NoError(t, RequireAssignee(dev, task))
	assert.Error(t, RequireAssignee(owner, task))
	assert.NoError(t, RequireCommentAuthor(dev, comment))
	assert.Error(t, RequireCommentAuthor(admin, comment))
}

func TestAllStopsAtFirstFailure(t *testing.T) {
	calls := 0
	count := func(err error) Guard {
		return func() error {
			calls++
			return err
		}
	}

	task := &models.Task{ID: 5, AssignedTo: dev.ID}
	err := All(count(nil), Assignee(owner, task), count(nil))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.NoError(t, All())
}

func TestAllChecksAuthorBeforeAssignee(t *testing.T) {
	task := &models.Task{ID: 5, AssignedTo: dev2.ID}
	comment := &models.Comment{ID: 7, TaskID: 5, UserID: dev.ID}

	var e *apperr.Error
	require.ErrorAs(t, All(Author(dev2, comment), Assignee(dev2, task)), &e)
	assert.Contains(t, e.Fields["authorization"][0], "your own comments")

	require.ErrorAs(t, All(Author(dev, comment), Assignee(dev, task)), &e)
	assert.Contains(t, e.Fields["authorization"][0], "assigned to you")

	task.AssignedTo = dev.ID
	assert.NoError(t, All(Author(dev, comment), Assignee(dev, task)))
}
