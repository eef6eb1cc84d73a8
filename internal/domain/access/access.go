// Package access derives what an authenticated actor may do with a project or task.
//
// Every handler asks one question, "what is this actor's permission set on
// this entity", and checks the bit it needs. Ownership and membership rules
// live only here.
package access

import "github.com/oksasatya/go-taskboard/internal/domain/entity"

// Permission is a bit set of capabilities.
type Permission uint8

const (
	// Read allows viewing a project, its members and its tasks, or a single task.
	Read Permission = 1 << iota
	// Write allows non-administrative mutation: creating tasks in a project,
	// editing task fields.
	Write
	// Admin allows renaming, describing and deleting a project and editing its member list.
	Admin
	// Transition allows changing a task's status.
	Transition
	// Delete allows removing a task.
	Delete
)

// None is the empty permission set.
const None Permission = 0

func (p Permission) Has(q Permission) bool { return p&q == q }

func (p Permission) String() string {
	if p == None {
		return "none"
	}
	names := []struct {
		bit  Permission
		name string
	}{
		{Read, "read"}, {Write, "write"}, {Admin, "admin"}, {Transition, "transition"}, {Delete, "delete"},
	}
	out := ""
	for _, n := range names {
		if p.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}

// ForProject returns the actor's permissions on a project.
// Owners get read, write and admin; members get read and write.
func ForProject(p *entity.Project, actorID string) Permission {
	switch {
	case p == nil || actorID == "":
		return None
	case p.IsOwner(actorID):
		return Read | Write | Admin
	case p.HasMember(actorID):
		return Read | Write
	}
	return None
}

// ForTask returns the actor's permissions on a task. project may be nil when
// the task's project no longer exists.
//
// Creators and assignees can always see the task and move it across the
// board, even without project access. Editing other fields requires project
// write access. Only the creator may delete.
func ForTask(t *entity.Task, project *entity.Project, actorID string) Permission {
	if t == nil || actorID == "" {
		return None
	}
	proj := None
	if project != nil && project.ID == t.ProjectID {
		proj = ForProject(project, actorID)
	}

	perm := None
	if proj.Has(Read) || t.IsCreator(actorID) || t.IsAssignee(actorID) {
		perm |= Read | Transition
	}
	if proj.Has(Write) {
		perm |= Write
	}
	if t.IsCreator(actorID) {
		perm |= Delete
	}
	return perm
}
