package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/pkg/mailer/templates"
)

func TestCreateTaskDefaultsAndValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	outsider := h.fx.CreateUser("Out", "out@example.com")
	p := h.fx.CreateProject(owner, "Board")

	v, err := h.tasks.Create(ctx, owner, application.CreateTaskInput{ProjectID: p.ID, Title: "Write", Description: "Docs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Status != "todo" || v.Priority != "medium" || v.Assignee != nil {
		t.Fatalf("defaults = %+v", v)
	}
	if v.Project.Name != "Board" || v.CreatedBy.ID != owner.ID {
		t.Fatalf("embedded refs = %+v / %+v", v.Project, v.CreatedBy)
	}
	if !h.index.Has(v.ID) {
		t.Error("task not indexed")
	}

	cases := []struct {
		name string
		in   application.CreateTaskInput
		kind apperror.Kind
	}{
		{"no title", application.CreateTaskInput{ProjectID: p.ID, Description: "d"}, apperror.KindValidation},
		{"bad status", application.CreateTaskInput{ProjectID: p.ID, Title: "t", Description: "d", Status: "blocked"}, apperror.KindValidation},
		{"bad priority", application.CreateTaskInput{ProjectID: p.ID, Title: "t", Description: "d", Priority: "urgent"}, apperror.KindValidation},
		{"non-member assignee", application.CreateTaskInput{ProjectID: p.ID, Title: "t", Description: "d", AssigneeID: ptr(outsider.ID)}, apperror.KindValidation},
		{"unknown project", application.CreateTaskInput{ProjectID: "nope", Title: "t", Description: "d"}, apperror.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.tasks.Create(ctx, owner, tc.in)
			wantKind(t, err, tc.kind)
		})
	}

	_, err = h.tasks.Create(ctx, outsider, application.CreateTaskInput{ProjectID: p.ID, Title: "t", Description: "d"})
	wantKind(t, err, apperror.KindNotFound)
}

func TestAssignmentSendsEmailToOthersOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	bob := h.fx.CreateUser("Bob", "bob@example.com")
	p := h.fx.CreateProject(owner, "Board", bob)
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	v, err := h.tasks.Create(ctx, owner, application.CreateTaskInput{
		ProjectID: p.ID, Title: "Fix", Description: "Bug", Priority: "high",
		AssigneeID: ptr(bob.ID), DueDate: &due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Assignee == nil || v.Assignee.Name != "Bob" || !v.DueDate.Equal(due) {
		t.Fatalf("view = %+v", v)
	}
	if _, err := h.tasks.Create(ctx, owner, application.CreateTaskInput{
		ProjectID: p.ID, Title: "Self", Description: "x", AssigneeID: ptr(owner.ID),
	}); err != nil {
		t.Fatalf("Create self-assigned: %v", err)
	}

	jobs := h.pub.Sent()
	if len(jobs) != 1 || jobs[0].Template != templates.TaskAssigned || jobs[0].To != "bob@example.com" {
		t.Fatalf("jobs = %+v", jobs)
	}
	if jobs[0].Data["TaskTitle"] != "Fix" || jobs[0].Data["Priority"] != "high" {
		t.Errorf("data = %v", jobs[0].Data)
	}
}

func TestOnlyCreatorDeletes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	bob := h.fx.CreateUser("Bob", "bob@example.com")
	outsider := h.fx.CreateUser("Out", "out@example.com")
	p := h.fx.CreateProject(owner, "Board", bob)
	task := h.fx.CreateTask(bob, p, "Bob's", nil)

	wantKind(t, h.tasks.Delete(ctx, owner, task.ID, noMeta), apperror.KindForbidden)
	wantKind(t, h.tasks.Delete(ctx, outsider, task.ID, noMeta), apperror.KindNotFound)
	if err := h.tasks.Delete(ctx, bob, task.ID, noMeta); err != nil {
		t.Fatalf("creator Delete: %v", err)
	}
	_, err := h.tasks.Get(ctx, bob, task.ID)
	wantKind(t, err, apperror.KindNotFound)
}

func TestAnyStatusToAnyStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	p := h.fx.CreateProject(owner, "Board")
	task := h.fx.CreateTask(owner, p, "T", nil)

	for _, from := range entity.TaskStatuses {
		for _, to := range entity.TaskStatuses {
			if _, err := h.tasks.UpdateStatus(ctx, owner, task.ID, string(from)); err != nil {
				t.Fatalf("reset to %s: %v", from, err)
			}
			v, err := h.tasks.UpdateStatus(ctx, owner, task.ID, string(to))
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if v.Status != string(to) {
				t.Fatalf("%s -> %s: got %s", from, to, v.Status)
			}
		}
	}

	_, err := h.tasks.UpdateStatus(ctx, owner, task.ID, "archived")
	wantKind(t, err, apperror.KindValidation)
	_, err = h.tasks.UpdateStatus(ctx, owner, task.ID, "")
	wantKind(t, err, apperror.KindValidation)
}

func TestAssigneeWithoutProjectAccess(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	bob := h.fx.CreateUser("Bob", "bob@example.com")
	p := h.fx.CreateProject(owner, "Board", bob)
	task := h.fx.CreateTask(owner, p, "Assigned", bob)

	if _, err := h.projects.RemoveMember(ctx, owner, p.ID, bob.ID, noMeta); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	if _, err := h.tasks.Get(ctx, bob, task.ID); err != nil {
		t.Fatalf("assignee Get: %v", err)
	}
	if _, err := h.tasks.UpdateStatus(ctx, bob, task.ID, "done"); err != nil {
		t.Fatalf("assignee UpdateStatus: %v", err)
	}
	_, err := h.tasks.Update(ctx, bob, task.ID, application.UpdateTaskInput{Title: ptr("Hijack")})
	wantKind(t, err, apperror.KindForbidden)
	wantKind(t, h.tasks.Delete(ctx, bob, task.ID, noMeta), apperror.KindForbidden)

	// project task listing still requires membership
	_, err = h.tasks.ListByProject(ctx, bob, p.ID)
	wantKind(t, err, apperror.KindNotFound)
	mine, err := h.tasks.ListMine(ctx, bob)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListMine = %v, %v", mine, err)
	}
}

func TestUpdateTaskFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	bob := h.fx.CreateUser("Bob", "bob@example.com")
	outsider := h.fx.CreateUser("Out", "out@example.com")
	p := h.fx.CreateProject(owner, "Board", bob)
	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	task := h.fx.CreateTask(owner, p, "T", bob)

	v, err := h.tasks.Update(ctx, bob, task.ID, application.UpdateTaskInput{
		Title:      ptr("Renamed"),
		Priority:   ptr("low"),
		Status:     ptr("in-progress"),
		DueDateSet: true,
		DueDate:    &due,
	})
	if err != nil {
		t.Fatalf("member Update: %v", err)
	}
	if v.Title != "Renamed" || v.Priority != "low" || v.Status != "in-progress" || v.Assignee == nil {
		t.Fatalf("view = %+v", v)
	}

	v, err = h.tasks.Update(ctx, owner, task.ID, application.UpdateTaskInput{AssigneeSet: true, DueDateSet: true})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if v.Assignee != nil || v.DueDate != nil {
		t.Fatalf("explicit null should clear: %+v", v)
	}

	_, err = h.tasks.Update(ctx, owner, task.ID, application.UpdateTaskInput{AssigneeSet: true, AssigneeID: ptr(outsider.ID)})
	wantKind(t, err, apperror.KindValidation)
	_, err = h.tasks.Update(ctx, owner, task.ID, application.UpdateTaskInput{Description: ptr("")})
	wantKind(t, err, apperror.KindValidation)
	_, err = h.tasks.Update(ctx, outsider, task.ID, application.UpdateTaskInput{Title: ptr("x")})
	wantKind(t, err, apperror.KindNotFound)

	stored, _ := h.fx.Tasks.GetByID(ctx, task.ID)
	if stored.Title != "Renamed" || stored.AssigneeID != nil {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestUpdateTaskRejectsBlankEnums(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	p := h.fx.CreateProject(owner, "Board")
	task := h.fx.CreateTask(owner, p, "T", nil)

	cases := []struct {
		name  string
		in    application.UpdateTaskInput
		field string
	}{
		{"empty status", application.UpdateTaskInput{Status: ptr("")}, "status"},
		{"blank priority", application.UpdateTaskInput{Priority: ptr("  ")}, "priority"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.tasks.Update(ctx, owner, task.ID, tc.in)
			wantKind(t, err, apperror.KindValidation)
			var ae *apperror.Error
			if !errors.As(err, &ae) || ae.Fields[tc.field] == "" {
				t.Fatalf("want field error on %s, got %v", tc.field, err)
			}
		})
	}

	stored, _ := h.fx.Tasks.GetByID(ctx, task.ID)
	if stored.Status != entity.StatusTodo || stored.Priority != entity.PriorityMedium {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestSearchTasks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.fx.CreateUser("Owner", "owner@example.com")
	outsider := h.fx.CreateUser("Out", "out@example.com")
	p := h.fx.CreateProject(owner, "Board")
	for _, title := range []string{"Login bug", "Signup page", "Logout bug"} {
		if _, err := h.tasks.Create(ctx, owner, application.CreateTaskInput{ProjectID: p.ID, Title: title, Description: "d"}); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := h.tasks.Search(ctx, owner, p.ID, "BUG")
	if err != nil || len(hits) != 2 {
		t.Fatalf("indexed search = %v, %v", hits, err)
	}

	h.index.Fails = errors.New("cluster down")
	hits, err = h.tasks.Search(ctx, owner, p.ID, "signup")
	if err != nil || len(hits) != 1 || hits[0].Title != "Signup page" {
		t.Fatalf("fallback search = %v, %v", hits, err)
	}

	_, err = h.tasks.Search(ctx, outsider, p.ID, "bug")
	wantKind(t, err, apperror.KindNotFound)
	_, err = h.tasks.Search(ctx, owner, p.ID, " ")
	wantKind(t, err, apperror.KindValidation)
}

// Scenario: A owns P with member B; C is an outsider.
func TestScenarioOwnerMemberOutsider(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.fx.CreateUser("A", "a@example.com")
	b := h.fx.CreateUser("B", "b@example.com")
	c := h.fx.CreateUser("C", "c@example.com")

	pv, err := h.projects.Create(ctx, a, application.CreateProjectInput{Name: "P", Description: "d"}, noMeta)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.projects.AddMember(ctx, a, pv.ID, b.Email, noMeta); err != nil {
		t.Fatal(err)
	}

	// B creates a task assigned to A.
	tv, err := h.tasks.Create(ctx, b, application.CreateTaskInput{ProjectID: pv.ID, Title: "T", Description: "d", AssigneeID: ptr(a.ID)})
	if err != nil {
		t.Fatalf("B creates task: %v", err)
	}

	// C sees nothing.
	_, err = h.tasks.Get(ctx, c, tv.ID)
	wantKind(t, err, apperror.KindNotFound)
	_, err = h.projects.Get(ctx, c, pv.ID)
	wantKind(t, err, apperror.KindNotFound)

	// A moves it; A cannot delete it; B can.
	if _, err := h.tasks.UpdateStatus(ctx, a, tv.ID, "done"); err != nil {
		t.Fatalf("A status: %v", err)
	}
	wantKind(t, h.tasks.Delete(ctx, a, tv.ID, noMeta), apperror.KindForbidden)
	if err := h.tasks.Delete(ctx, b, tv.ID, noMeta); err != nil {
		t.Fatalf("B delete: %v", err)
	}

	// B cannot rename the project or remove A.
	_, err = h.projects.Update(ctx, b, pv.ID, application.UpdateProjectInput{Name: ptr("Mine")})
	wantKind(t, err, apperror.KindNotFound)
	_, err = h.projects.RemoveMember(ctx, b, pv.ID, a.ID, noMeta)
	wantKind(t, err, apperror.KindNotFound)
}
