package event

import (
	"time"

	"projecthub/internal/model"
)

// Kind identifies a committed entity mutation.
type Kind string

const (
	KindProjectCreated Kind = "project.created"
	KindProjectUpdated Kind = "project.updated"
	KindProjectDeleted Kind = "project.deleted"
	KindTaskCreated    Kind = "task.created"
	KindTaskUpdated    Kind = "task.updated"
	KindTaskCompleted  Kind = "task.completed"
	KindTaskMissed     Kind = "task.missed"
	KindTaskDeleted    Kind = "task.deleted"
	KindTaskAssigned   Kind = "task.assigned"
	KindTaskUnassigned Kind = "task.unassigned"
	KindExpenseCreated Kind = "expense.created"
	KindMemberAdded    Kind = "member.added"
	KindMemberRemoved  Kind = "member.removed"
)

// Event is the typed value a mutating service emits after its primary write
// commits. Services construct events explicitly; there is no hidden
// subscription registry.
type Event struct {
	Kind    Kind
	ActorID int64 // authenticated user performing the mutation

	Project *model.Project
	Task    *model.Task
	Expense *model.Expense

	// Target of an assignment or membership change.
	TargetUserID int64

	At time.Time
}
