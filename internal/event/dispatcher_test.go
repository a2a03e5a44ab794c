package event_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"projecthub/internal/event"
	"projecthub/internal/model"
)

type capturingActivityWriter struct {
	entries []*model.ActivityLog
	err     error
}

func (w *capturingActivityWriter) InsertLog(_ context.Context, entry *model.ActivityLog) error {
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, entry)
	return nil
}

type capturingNotificationWriter struct {
	notifications []*model.Notification
	err           error
}

func (w *capturingNotificationWriter) CreateNotification(_ context.Context, n *model.Notification) error {
	if w.err != nil {
		return w.err
	}
	w.notifications = append(w.notifications, n)
	return nil
}

func newDispatcher(logs *capturingActivityWriter, notifications *capturingNotificationWriter) *event.Dispatcher {
	recorder := event.NewRecorder(defaultSnapshot())
	return event.NewDispatcher(recorder, event.NewNotifier(), logs, notifications, zap.NewNop())
}

func TestDispatchWritesLogAndNotification(t *testing.T) {
	logs := &capturingActivityWriter{}
	notifications := &capturingNotificationWriter{}
	d := newDispatcher(logs, notifications)

	d.Dispatch(context.Background(), event.Event{
		Kind:         event.KindTaskAssigned,
		ActorID:      1,
		Project:      testProject,
		Task:         testTask,
		TargetUserID: 2,
		At:           testTime,
	})

	if len(logs.entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs.entries))
	}
	if logs.entries[0].Action != "assigned bob to task 'Ship it'" {
		t.Errorf("action = %q", logs.entries[0].Action)
	}
	if len(notifications.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.notifications))
	}
	if notifications.notifications[0].UserID != 2 {
		t.Errorf("notification user = %d", notifications.notifications[0].UserID)
	}
}

func TestDispatchNoNotificationForOtherKinds(t *testing.T) {
	logs := &capturingActivityWriter{}
	notifications := &capturingNotificationWriter{}
	d := newDispatcher(logs, notifications)

	d.Dispatch(context.Background(),
		event.Event{Kind: event.KindTaskCreated, Project: testProject, Task: testTask, At: testTime},
		event.Event{Kind: event.KindTaskCompleted, Project: testProject, Task: testTask, At: testTime},
	)

	if len(notifications.notifications) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifications.notifications))
	}
	if len(logs.entries) != 2 {
		t.Errorf("expected 2 log entries, got %d", len(logs.entries))
	}
}

func TestDispatchSwallowsWriteFailures(t *testing.T) {
	logs := &capturingActivityWriter{err: errors.New("db down")}
	notifications := &capturingNotificationWriter{err: errors.New("db down")}
	d := newDispatcher(logs, notifications)

	// Must not panic or propagate anything.
	d.Dispatch(context.Background(), event.Event{
		Kind:         event.KindTaskAssigned,
		Project:      testProject,
		Task:         testTask,
		TargetUserID: 2,
		At:           testTime,
	})
}

func TestDispatchProcessesEventsInOrder(t *testing.T) {
	logs := &capturingActivityWriter{}
	notifications := &capturingNotificationWriter{}
	d := newDispatcher(logs, notifications)

	d.Dispatch(context.Background(),
		event.Event{Kind: event.KindTaskCreated, Project: testProject, Task: testTask, At: testTime},
		event.Event{Kind: event.KindMemberAdded, Project: testProject, TargetUserID: 2, At: testTime},
	)

	if len(logs.entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs.entries))
	}
	if logs.entries[0].Action != "added task 'Ship it'" {
		t.Errorf("first action = %q", logs.entries[0].Action)
	}
	if logs.entries[1].Action != "added bob to the team" {
		t.Errorf("second action = %q", logs.entries[1].Action)
	}
}
