// Package guard holds the authorization predicates evaluated before any mutation.
// Guards are pure: they only inspect their arguments.
package guard

import (
	"devtasker/internal/apperr"
	"devtasker/internal/models"
)

// Guard is a deferred check. All evaluates guards in order and stops at the first
// failure.
type Guard func() error

func All(guards ...Guard) error {
	for _, g := range guards {
		if err := g(); err != nil {
			return err
		}
	}
	return nil
}

func RequireRole(user *models.User, role models.Role) error {
	if user == nil {
		return apperr.Unauthenticated("You are not logged in or the token has expired.")
	}
	if user.Role == role {
		return nil
	}
	switch role {
	case models.RoleProductOwner:
		return apperr.Forbidden("Only a product owner can perform this action.")
	case models.RoleDeveloper:
		return apperr.Forbidden("Only a developer can perform this action.")
	case models.RoleTaskAdmin:
		return apperr.Forbidden("Only a task admin can manage tags.")
	}
	return apperr.Forbidden("Unknown role.")
}

func RequireProjectMember(user *models.User, project *models.Project) error {
	if user == nil || project == nil || !project.HasMember(user.ID) {
		return apperr.Forbidden("You are not a member of this project.")
	}
	return nil
}

func RequireAssignee(user *models.User, task *models.Task) error {
	if user == nil || task == nil || task.AssignedTo != user.ID {
		return apperr.Forbidden("You can only act on tasks assigned to you.")
	}
	return nil
}

func RequireCommentAuthor(user *models.User, comment *models.Comment) error {
	if user == nil || comment == nil || comment.UserID != user.ID {
		return apperr.Forbidden("You can only delete your own comments.")
	}
	return nil
}

// Assignee and Author adapt the task and comment predicates for All.

func Assignee(user *models.User, task *models.Task) Guard {
	return func() error { return RequireAssignee(user, task) }
}

func Author(user *models.User, comment *models.Comment) Guard {
	return func() error { return RequireCommentAuthor(user, comment) }
}
