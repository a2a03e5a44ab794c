package event

import "context"

// UserReader resolves a user id to its username. Implementations return
// model.ErrNotFound for users that no longer exist.
type UserReader interface {
	Username(ctx context.Context, userID int64) (string, error)
}

// LogReader answers whether a task already has a log whose action contains
// the given fragment. This is the idempotency check behind the one
// "completed" / one "missed" entry per task invariant.
type LogReader interface {
	TaskLogExists(ctx context.Context, taskID int64, fragment string) (bool, error)
}

// AssigneeReader returns the first assignee of a task, if any.
type AssigneeReader interface {
	FirstAssignee(ctx context.Context, taskID int64) (int64, bool, error)
}

// Snapshot is the read-side view the recorder derives from. The three reads
// are split so tests can fake each independently.
type Snapshot struct {
	Users     UserReader
	Logs      LogReader
	Assignees AssigneeReader
}
