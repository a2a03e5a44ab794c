package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"projecthub/internal/event"
	"projecthub/internal/model"
	"projecthub/pkg/metrics"
)

// OverdueTaskStore is the slice of the task repository the sweeper needs.
type OverdueTaskStore interface {
	ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error)
	MarkMissed(ctx context.Context, taskID int64) (bool, error)
}

type ProjectGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
}

// Sweeper moves overdue tasks to Missed in the background, replacing any
// on-read mutation. Each transition goes through a guarded update, so a user
// edit racing the sweep cannot be overwritten.
type Sweeper struct {
	tasks      OverdueTaskStore
	projects   ProjectGetter
	dispatcher EventSink
	logger     *zap.Logger
}

func NewSweeper(tasks OverdueTaskStore, projects ProjectGetter, dispatcher EventSink, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		tasks:      tasks,
		projects:   projects,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Sweep transitions every overdue Pending or In Progress task to Missed and
// emits a task.missed event per transition. Returns the number of tasks moved.
// Re-running over the same data is a no-op: already Missed tasks no longer
// match the overdue query, and the guarded update skips anything a concurrent
// edit moved first.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	overdue, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	projectCache := map[int64]*model.Project{}
	moved := 0
	for i := range overdue {
		t := &overdue[i]
		changed, err := s.tasks.MarkMissed(ctx, t.ID)
		if err != nil {
			s.logger.Error("Sweep failed to mark task missed",
				zap.Int64("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}
		if !changed {
			continue
		}
		moved++
		metrics.SweepTransitions.Inc()
		t.Status = model.TaskStatusMissed

		p, ok := projectCache[t.ProjectID]
		if !ok {
			p, err = s.projects.GetByID(ctx, t.ProjectID)
			if err != nil {
				s.logger.Warn("Sweep moved task but project lookup failed, skipping event",
					zap.Int64("task_id", t.ID),
					zap.Int64("project_id", t.ProjectID),
					zap.Error(err),
				)
				continue
			}
			projectCache[t.ProjectID] = p
		}
		s.dispatcher.Dispatch(ctx, event.Event{
			Kind:    event.KindTaskMissed,
			Project: p,
			Task:    t,
			At:      now,
		})
	}

	s.logger.Info("Sweep finished",
		zap.Int("overdue", len(overdue)),
		zap.Int("moved", moved),
		zap.Duration("took", time.Since(start)),
	)
	return moved, nil
}
