package event

import (
	"fmt"
	"time"

	"projecthub/internal/model"
)

// Notifier builds user notifications for assignment changes. Deliberately no
// de-duplication: repeated assign/unassign cycles produce repeated
// notifications, consumers treat them as a log.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) AssignmentChange(task *model.Task, project *model.Project, userID int64, added bool, at time.Time) *model.Notification {
	verb := "assigned to"
	if !added {
		verb = "unassigned from"
	}
	return &model.Notification{
		UserID:    userID,
		Message:   fmt.Sprintf("You have been %s task: '%s' in project '%s'", verb, task.Title, project.Title),
		CreatedAt: at,
	}
}
