package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"projecthub/internal/event"
	"projecthub/internal/model"
	"projecthub/internal/service"
)

type fakeTaskStore struct {
	overdue     []model.Task
	markResults map[int64]bool // taskID -> whether the guarded update fired
	markCalls   []int64
	listErr     error
}

func (f *fakeTaskStore) ListOverdue(_ context.Context, _ time.Time) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.overdue, nil
}

func (f *fakeTaskStore) MarkMissed(_ context.Context, taskID int64) (bool, error) {
	f.markCalls = append(f.markCalls, taskID)
	return f.markResults[taskID], nil
}

type fakeProjectGetter struct {
	projects map[int64]*model.Project
	calls    int
}

func (f *fakeProjectGetter) GetByID(_ context.Context, id int64) (*model.Project, error) {
	f.calls++
	p, ok := f.projects[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return p, nil
}

type capturingSink struct {
	events []event.Event
}

func (s *capturingSink) Dispatch(_ context.Context, events ...event.Event) {
	s.events = append(s.events, events...)
}

func overdueTask(id, projectID int64, status string) model.Task {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return model.Task{ID: id, ProjectID: projectID, Title: "t", Status: status, DueDate: &due}
}

func TestSweepTransitionsOverdueTasks(t *testing.T) {
	tasks := &fakeTaskStore{
		overdue: []model.Task{
			overdueTask(1, 10, model.TaskStatusPending),
			overdueTask(2, 10, model.TaskStatusInProgress),
		},
		markResults: map[int64]bool{1: true, 2: true},
	}
	projects := &fakeProjectGetter{projects: map[int64]*model.Project{
		10: {ID: 10, OwnerID: 1, Title: "Launch"},
	}}
	sink := &capturingSink{}

	s := service.NewSweeper(tasks, projects, sink, zap.NewNop())
	now := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	moved, err := s.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}
	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	for _, ev := range sink.events {
		if ev.Kind != event.KindTaskMissed {
			t.Errorf("kind = %s", ev.Kind)
		}
		if ev.Task.Status != model.TaskStatusMissed {
			t.Errorf("event task status = %q", ev.Task.Status)
		}
		if !ev.At.Equal(now) {
			t.Errorf("event time = %v", ev.At)
		}
	}
	// Both tasks share a project; one lookup should serve both events.
	if projects.calls != 1 {
		t.Errorf("project lookups = %d, want 1", projects.calls)
	}
}

func TestSweepSkipsTasksMovedConcurrently(t *testing.T) {
	// The guarded update reports no change: a user edit won the race.
	tasks := &fakeTaskStore{
		overdue:     []model.Task{overdueTask(1, 10, model.TaskStatusPending)},
		markResults: map[int64]bool{1: false},
	}
	projects := &fakeProjectGetter{projects: map[int64]*model.Project{}}
	sink := &capturingSink{}

	s := service.NewSweeper(tasks, projects, sink, zap.NewNop())
	moved, err := s.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d, want 0", moved)
	}
	if len(sink.events) != 0 {
		t.Errorf("expected no events, got %d", len(sink.events))
	}
	if projects.calls != 0 {
		t.Errorf("no project lookup expected, got %d", projects.calls)
	}
}

func TestSweepEmptyBacklogIsNoop(t *testing.T) {
	tasks := &fakeTaskStore{}
	sink := &capturingSink{}

	s := service.NewSweeper(tasks, &fakeProjectGetter{}, sink, zap.NewNop())
	moved, err := s.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if moved != 0 || len(sink.events) != 0 {
		t.Errorf("moved = %d, events = %d, want both 0", moved, len(sink.events))
	}
}

func TestSweepListFailurePropagates(t *testing.T) {
	tasks := &fakeTaskStore{listErr: errors.New("db down")}

	s := service.NewSweeper(tasks, &fakeProjectGetter{}, &capturingSink{}, zap.NewNop())
	if _, err := s.Sweep(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSweepContinuesPastMissingProject(t *testing.T) {
	tasks := &fakeTaskStore{
		overdue: []model.Task{
			overdueTask(1, 99, model.TaskStatusPending), // project gone
			overdueTask(2, 10, model.TaskStatusPending),
		},
		markResults: map[int64]bool{1: true, 2: true},
	}
	projects := &fakeProjectGetter{projects: map[int64]*model.Project{
		10: {ID: 10, OwnerID: 1, Title: "Launch"},
	}}
	sink := &capturingSink{}

	s := service.NewSweeper(tasks, projects, sink, zap.NewNop())
	moved, err := s.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	// Both transitions count, but only the resolvable project emits an event.
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}
	if len(sink.events) != 1 {
		t.Errorf("events = %d, want 1", len(sink.events))
	}
}
