// Package policy holds the access decisions governing tasks and users across
// companies and roles. Every mutation in the task and admin services funnels
// through these predicates so the scoping rules have one source of truth.
package policy

import (
	"errors"

	"github.com/taskboard/taskboard-api/internal/models"
)

// ErrAdminRequired is returned by EnsureAdmin for non-admin actors.
var ErrAdminRequired = errors.New("admin role required")

// CanAssign reports whether the actor may set a task's assignee to the target
// user. Self-assignment is always permitted; assigning anyone else requires
// the admin role.
func CanAssign(actor *models.User, targetUserID uint64) bool {
	if targetUserID == actor.ID {
		return true
	}
	return actor.IsAdmin()
}

// CanAccessTask reports whether the actor may read, modify, or delete the
// task. Admins access every task in their company; members only tasks
// assigned to them. Callers must have already scoped the task lookup to the
// actor's company.
func CanAccessTask(actor *models.User, task *models.Task) bool {
	if actor.IsAdmin() {
		return true
	}
	return task.AssigneeID == actor.ID
}

// EnsureAdmin gates admin-only operations.
func EnsureAdmin(actor *models.User) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
