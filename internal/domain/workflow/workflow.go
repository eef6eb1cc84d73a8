// Package workflow validates task status changes and assignee selection.
//
// Status is a flat label: any valid status may replace any other. The board
// suggests todo → in-progress → done but nothing here enforces an order.
package workflow

import (
	"strings"

	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// ParseStatus validates a status label. Empty input yields def.
func ParseStatus(s string, def entity.TaskStatus) (entity.TaskStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	st := entity.TaskStatus(s)
	if !st.Valid() {
		return "", apperror.FieldValidation("status", "Invalid status value")
	}
	return st, nil
}

// ParsePriority validates a priority label. Empty input yields def.
func ParsePriority(s string, def entity.TaskPriority) (entity.TaskPriority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	p := entity.TaskPriority(s)
	if !p.Valid() {
		return "", apperror.FieldValidation("priority", "Invalid priority value")
	}
	return p, nil
}

// Transition checks a status change. Every valid target is reachable from
// every current status, including the current one.
func Transition(from, to entity.TaskStatus) error {
	if !to.Valid() {
		return apperror.FieldValidation("status", "Invalid status value")
	}
	return nil
}

// ValidateAssignee checks that assigneeID is a current member of the project.
// An empty id means "unassigned" and is always accepted.
func ValidateAssignee(p *entity.Project, assigneeID string) error {
	if assigneeID == "" {
		return nil
	}
	if !p.HasMember(assigneeID) {
		return apperror.FieldValidation("assigneeId", "Assignee must be a project member")
	}
	return nil
}
