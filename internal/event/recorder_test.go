package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"projecthub/internal/event"
	"projecthub/internal/model"
)

type fakeUsers struct {
	names map[int64]string
}

func (f fakeUsers) Username(_ context.Context, userID int64) (string, error) {
	name, ok := f.names[userID]
	if !ok {
		return "", model.ErrNotFound
	}
	return name, nil
}

type fakeLogs struct {
	existing map[int64][]string // taskID -> action fragments already logged
}

func (f fakeLogs) TaskLogExists(_ context.Context, taskID int64, fragment string) (bool, error) {
	for _, frag := range f.existing[taskID] {
		if frag == fragment {
			return true, nil
		}
	}
	return false, nil
}

type fakeAssignees struct {
	first map[int64]int64
}

func (f fakeAssignees) FirstAssignee(_ context.Context, taskID int64) (int64, bool, error) {
	id, ok := f.first[taskID]
	return id, ok, nil
}

func snapshot(users fakeUsers, logs fakeLogs, assignees fakeAssignees) event.Snapshot {
	return event.Snapshot{Users: users, Logs: logs, Assignees: assignees}
}

var (
	testProject = &model.Project{ID: 10, OwnerID: 1, Title: "Launch"}
	testTask    = &model.Task{ID: 20, ProjectID: 10, Title: "Ship it"}
	testTime    = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func defaultSnapshot() event.Snapshot {
	return snapshot(
		fakeUsers{names: map[int64]string{1: "alice", 2: "bob"}},
		fakeLogs{existing: map[int64][]string{}},
		fakeAssignees{first: map[int64]int64{}},
	)
}

func TestRecordTaskCreated(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskCreated,
		ActorID: 2,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Action != "added task 'Ship it'" {
		t.Errorf("action = %q", entry.Action)
	}
	if entry.UserID == nil || *entry.UserID != 1 {
		t.Errorf("expected attribution to owner 1, got %v", entry.UserID)
	}
	if entry.ProjectID == nil || *entry.ProjectID != 10 {
		t.Errorf("project_id = %v", entry.ProjectID)
	}
	if entry.TaskID == nil || *entry.TaskID != 20 {
		t.Errorf("task_id = %v", entry.TaskID)
	}
	if !entry.CreatedAt.Equal(testTime) {
		t.Errorf("created_at = %v", entry.CreatedAt)
	}
}

func TestRecordTaskCompletedCreditsFirstAssignee(t *testing.T) {
	snap := defaultSnapshot()
	snap.Assignees = fakeAssignees{first: map[int64]int64{20: 2}}
	r := event.NewRecorder(snap)

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskCompleted,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Action != "completed task 'Ship it'" {
		t.Errorf("action = %q", entry.Action)
	}
	if *entry.UserID != 2 {
		t.Errorf("expected first assignee 2, got %d", *entry.UserID)
	}
}

func TestRecordTaskCompletedFallsBackToOwner(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskCompleted,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if *entry.UserID != 1 {
		t.Errorf("expected owner 1 with no assignees, got %d", *entry.UserID)
	}
}

func TestRecordTaskCompletedSuppressedWhenLogged(t *testing.T) {
	snap := defaultSnapshot()
	snap.Logs = fakeLogs{existing: map[int64][]string{20: {"completed"}}}
	r := event.NewRecorder(snap)

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskCompleted,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry != nil {
		t.Errorf("expected suppression, got %q", entry.Action)
	}
}

func TestRecordTaskMissed(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskMissed,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.Action != "missed due date for task 'Ship it'" {
		t.Errorf("action = %q", entry.Action)
	}
	if *entry.UserID != 1 {
		t.Errorf("expected owner attribution, got %d", *entry.UserID)
	}
}

func TestRecordTaskMissedSuppressedWhenLogged(t *testing.T) {
	snap := defaultSnapshot()
	snap.Logs = fakeLogs{existing: map[int64][]string{20: {"missed"}}}
	r := event.NewRecorder(snap)

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskMissed,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry != nil {
		t.Errorf("expected suppression, got %q", entry.Action)
	}
}

func TestRecordTaskDeletedKeepsProjectDropsTask(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskDeleted,
		ActorID: 2,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.Action != "deleted task 'Ship it'" {
		t.Errorf("action = %q", entry.Action)
	}
	if *entry.UserID != 2 {
		t.Errorf("deletion should be attributed to the actor, got %d", *entry.UserID)
	}
	if entry.TaskID != nil {
		t.Errorf("deleted task must not be referenced, got %d", *entry.TaskID)
	}
	if entry.ProjectID == nil || *entry.ProjectID != 10 {
		t.Errorf("project reference should survive, got %v", entry.ProjectID)
	}
}

func TestRecordAssignmentChanges(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	cases := []struct {
		kind   event.Kind
		action string
	}{
		{event.KindTaskAssigned, "assigned bob to task 'Ship it'"},
		{event.KindTaskUnassigned, "unassigned bob from task 'Ship it'"},
	}
	for _, tc := range cases {
		entry, err := r.Record(context.Background(), event.Event{
			Kind:         tc.kind,
			ActorID:      1,
			Project:      testProject,
			Task:         testTask,
			TargetUserID: 2,
			At:           testTime,
		})
		if err != nil {
			t.Fatalf("%s: %v", tc.kind, err)
		}
		if entry.Action != tc.action {
			t.Errorf("%s: action = %q, want %q", tc.kind, entry.Action, tc.action)
		}
		if *entry.UserID != 1 {
			t.Errorf("%s: expected owner attribution, got %d", tc.kind, *entry.UserID)
		}
	}
}

func TestRecordExpenseCreated(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindExpenseCreated,
		Project: testProject,
		Expense: &model.Expense{
			ID:          30,
			ProjectID:   10,
			Amount:      decimal.RequireFromString("49.9"),
			Description: "cables",
		},
		At: testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.Action != "added an expense: $49.90 (cables)" {
		t.Errorf("action = %q", entry.Action)
	}
	if entry.TaskID != nil {
		t.Errorf("expense logs carry no task reference, got %v", entry.TaskID)
	}
}

func TestRecordMemberAdded(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind:         event.KindMemberAdded,
		ActorID:      1,
		Project:      testProject,
		TargetUserID: 2,
		At:           testTime,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.Action != "added bob to the team" {
		t.Errorf("action = %q", entry.Action)
	}
	if *entry.UserID != 1 {
		t.Errorf("expected owner attribution, got %d", *entry.UserID)
	}
}

func TestRecordIgnoresUnloggedKinds(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	for _, kind := range []event.Kind{
		event.KindProjectCreated,
		event.KindProjectUpdated,
		event.KindProjectDeleted,
		event.KindTaskUpdated,
		event.KindMemberRemoved,
	} {
		entry, err := r.Record(context.Background(), event.Event{
			Kind:    kind,
			Project: testProject,
			Task:    testTask,
			At:      testTime,
		})
		if err != nil {
			t.Errorf("%s: unexpected error %v", kind, err)
		}
		if entry != nil {
			t.Errorf("%s: expected no entry, got %q", kind, entry.Action)
		}
	}
}

func TestRecordUnresolvableOwnerIsDiagnosticOnly(t *testing.T) {
	snap := defaultSnapshot()
	snap.Users = fakeUsers{names: map[int64]string{}}
	r := event.NewRecorder(snap)

	entry, err := r.Record(context.Background(), event.Event{
		Kind:    event.KindTaskCreated,
		Project: testProject,
		Task:    testTask,
		At:      testTime,
	})
	if err == nil {
		t.Fatal("expected a diagnostic error for a dangling owner")
	}
	if entry != nil {
		t.Errorf("expected no entry, got %q", entry.Action)
	}
}

func TestRecordIncompleteEvent(t *testing.T) {
	r := event.NewRecorder(defaultSnapshot())

	entry, err := r.Record(context.Background(), event.Event{
		Kind: event.KindTaskCompleted,
		At:   testTime,
	})
	if err == nil {
		t.Fatal("expected an error for an event without project and task")
	}
	if entry != nil {
		t.Errorf("expected no entry, got %q", entry.Action)
	}
}
