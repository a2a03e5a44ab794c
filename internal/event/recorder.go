package event

import (
	"context"
	"fmt"

	"projecthub/internal/model"
)

// Fragments used for duplicate suppression. At most one log whose action
// contains each fragment may exist per task.
const (
	fragmentCompleted = "completed"
	fragmentMissed    = "missed"
)

// Recorder derives at most one activity log entry per event. It never
// persists anything itself; the dispatcher writes whatever it returns.
type Recorder struct {
	snap Snapshot
}

func NewRecorder(snap Snapshot) *Recorder {
	return &Recorder{snap: snap}
}

// Record returns the log entry derived from ev, or nil when the event is
// unrecognized or suppressed as a duplicate. A non-nil error is diagnostic
// only: the caller logs it and moves on, it never aborts the mutation that
// produced the event.
func (r *Recorder) Record(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	switch ev.Kind {
	case KindTaskCreated:
		return r.taskCreated(ctx, ev)
	case KindTaskCompleted:
		return r.taskCompleted(ctx, ev)
	case KindTaskMissed:
		return r.taskMissed(ctx, ev)
	case KindTaskDeleted:
		return r.taskDeleted(ctx, ev)
	case KindTaskAssigned, KindTaskUnassigned:
		return r.assignmentChanged(ctx, ev)
	case KindExpenseCreated:
		return r.expenseCreated(ctx, ev)
	case KindMemberAdded:
		return r.memberAdded(ctx, ev)
	default:
		// Project create/update/delete, task updates without a status
		// transition, member removal: observed but not logged.
		return nil, nil
	}
}

func (r *Recorder) taskCreated(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil || ev.Task == nil {
		return nil, fmt.Errorf("task.created event missing project or task")
	}
	owner, err := r.resolveOwner(ctx, ev)
	if err != nil {
		return nil, err
	}
	return r.log(ev, owner, fmt.Sprintf("added task '%s'", ev.Task.Title)), nil
}

func (r *Recorder) taskCompleted(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil || ev.Task == nil {
		return nil, fmt.Errorf("task.completed event missing project or task")
	}
	exists, err := r.snap.Logs.TaskLogExists(ctx, ev.Task.ID, fragmentCompleted)
	if err != nil {
		return nil, fmt.Errorf("completed-log lookup for task %d: %w", ev.Task.ID, err)
	}
	if exists {
		return nil, nil
	}

	// Credit the first assignee when the task has one, otherwise the owner.
	actor, ok, err := r.snap.Assignees.FirstAssignee(ctx, ev.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("assignee lookup for task %d: %w", ev.Task.ID, err)
	}
	if !ok {
		actor, err = r.resolveOwner(ctx, ev)
		if err != nil {
			return nil, err
		}
	}
	return r.log(ev, actor, fmt.Sprintf("completed task '%s'", ev.Task.Title)), nil
}

func (r *Recorder) taskMissed(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil || ev.Task == nil {
		return nil, fmt.Errorf("task.missed event missing project or task")
	}
	exists, err := r.snap.Logs.TaskLogExists(ctx, ev.Task.ID, fragmentMissed)
	if err != nil {
		return nil, fmt.Errorf("missed-log lookup for task %d: %w", ev.Task.ID, err)
	}
	if exists {
		return nil, nil
	}
	owner, err := r.resolveOwner(ctx, ev)
	if err != nil {
		return nil, err
	}
	return r.log(ev, owner, fmt.Sprintf("missed due date for task '%s'", ev.Task.Title)), nil
}

func (r *Recorder) taskDeleted(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil || ev.Task == nil {
		return nil, fmt.Errorf("task.deleted event missing project or task")
	}
	if _, err := r.snap.Users.Username(ctx, ev.ActorID); err != nil {
		return nil, fmt.Errorf("actor %d unresolvable: %w", ev.ActorID, err)
	}
	entry := r.log(ev, ev.ActorID, fmt.Sprintf("deleted task '%s'", ev.Task.Title))
	// The task row is gone; keep the project reference only.
	entry.TaskID = nil
	return entry, nil
}

func (r *Recorder) assignmentChanged(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil || ev.Task == nil {
		return nil, fmt.Errorf("%s event missing project or task", ev.Kind)
	}
	name, err := r.snap.Users.Username(ctx, ev.TargetUserID)
	if err != nil {
		return nil, fmt.Errorf("assignee %d unresolvable: %w", ev.TargetUserID, err)
	}
	owner, err := r.resolveOwner(ctx, ev)
	if err != nil {
		return nil, err
	}
	verb := "assigned %s to task '%s'"
	if ev.Kind == KindTaskUnassigned {
		verb = "unassigned %s from task '%s'"
	}
	return r.log(ev, owner, fmt.Sprintf(verb, name, ev.Task.Title)), nil
}

func (r *Recorder) expenseCreated(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil || ev.Expense == nil {
		return nil, fmt.Errorf("expense.created event missing project or expense")
	}
	owner, err := r.resolveOwner(ctx, ev)
	if err != nil {
		return nil, err
	}
	action := fmt.Sprintf("added an expense: $%s (%s)",
		ev.Expense.Amount.StringFixed(2), ev.Expense.Description)
	return r.log(ev, owner, action), nil
}

func (r *Recorder) memberAdded(ctx context.Context, ev Event) (*model.ActivityLog, error) {
	if ev.Project == nil {
		return nil, fmt.Errorf("member.added event missing project")
	}
	name, err := r.snap.Users.Username(ctx, ev.TargetUserID)
	if err != nil {
		return nil, fmt.Errorf("member %d unresolvable: %w", ev.TargetUserID, err)
	}
	owner, err := r.resolveOwner(ctx, ev)
	if err != nil {
		return nil, err
	}
	return r.log(ev, owner, fmt.Sprintf("added %s to the team", name)), nil
}

// resolveOwner verifies the project owner still exists. A dangling owner
// reference downgrades the event to a no-op with a diagnostic.
func (r *Recorder) resolveOwner(ctx context.Context, ev Event) (int64, error) {
	owner := ev.Project.OwnerID
	if _, err := r.snap.Users.Username(ctx, owner); err != nil {
		return 0, fmt.Errorf("project %d owner %d unresolvable: %w", ev.Project.ID, owner, err)
	}
	return owner, nil
}

func (r *Recorder) log(ev Event, userID int64, action string) *model.ActivityLog {
	entry := &model.ActivityLog{
		UserID:    &userID,
		Action:    action,
		CreatedAt: ev.At,
	}
	if ev.Project != nil {
		pid := ev.Project.ID
		entry.ProjectID = &pid
	}
	if ev.Task != nil {
		tid := ev.Task.ID
		entry.TaskID = &tid
	}
	return entry
}
