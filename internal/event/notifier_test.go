package event_test

import (
	"testing"
	"time"

	"projecthub/internal/event"
	"projecthub/internal/model"
)

func TestNotifierAssignmentChange(t *testing.T) {
	n := event.NewNotifier()
	task := &model.Task{ID: 20, Title: "Ship it"}
	project := &model.Project{ID: 10, Title: "Launch"}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assigned := n.AssignmentChange(task, project, 7, true, at)
	if assigned.Message != "You have been assigned to task: 'Ship it' in project 'Launch'" {
		t.Errorf("assigned message = %q", assigned.Message)
	}
	if assigned.UserID != 7 {
		t.Errorf("user_id = %d", assigned.UserID)
	}
	if !assigned.CreatedAt.Equal(at) {
		t.Errorf("created_at = %v", assigned.CreatedAt)
	}
	if assigned.IsRead {
		t.Error("new notification must be unread")
	}

	unassigned := n.AssignmentChange(task, project, 7, false, at)
	if unassigned.Message != "You have been unassigned from task: 'Ship it' in project 'Launch'" {
		t.Errorf("unassigned message = %q", unassigned.Message)
	}
}
