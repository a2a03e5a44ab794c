package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"projecthub/internal/event"
	"projecthub/internal/model"
	"projecthub/internal/repository"
)

type TaskService struct {
	tasks      *repository.TaskRepository
	projects   *repository.ProjectRepository
	authz      *Authz
	dispatcher EventSink
	logger     *zap.Logger
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	authz *Authz,
	dispatcher EventSink,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		tasks:      tasks,
		projects:   projects,
		authz:      authz,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *TaskService) Create(ctx context.Context, actorID int64, t *model.Task) error {
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = model.TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if !model.ValidTaskStatus(t.Status) || !model.ValidPriority(t.Priority) {
		return fmt.Errorf("invalid task fields: %w", model.ErrInvalid)
	}

	if err := s.tasks.Insert(ctx, t); err != nil {
		return err
	}

	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		s.logger.Warn("Task created but project lookup failed, skipping event",
			zap.Int64("task_id", t.ID),
			zap.Error(err),
		)
		return nil
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:    event.KindTaskCreated,
		ActorID: actorID,
		Project: p,
		Task:    t,
		At:      time.Now(),
	})
	return nil
}

func (s *TaskService) Get(ctx context.Context, actorID, taskID int64) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, actorID int64) ([]model.Task, error) {
	return s.tasks.ListForUser(ctx, actorID)
}

func (s *TaskService) ListByProject(ctx context.Context, actorID, projectID int64) ([]model.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, p); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// Update saves the task and emits the event matching its resulting state. A
// save landing on Done always emits task.completed; the recorder decides
// whether the log already exists, so repeated saves stay idempotent.
func (s *TaskService) Update(ctx context.Context, actorID int64, t *model.Task) error {
	existing, err := s.tasks.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckAccess(ctx, actorID, existing); err != nil {
		return err
	}
	if !model.ValidTaskStatus(t.Status) || !model.ValidPriority(t.Priority) {
		return fmt.Errorf("invalid task fields: %w", model.ErrInvalid)
	}
	t.ProjectID = existing.ProjectID

	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}

	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		s.logger.Warn("Task updated but project lookup failed, skipping event",
			zap.Int64("task_id", t.ID),
			zap.Error(err),
		)
		return nil
	}

	kind := event.KindTaskUpdated
	switch t.Status {
	case model.TaskStatusDone:
		kind = event.KindTaskCompleted
	case model.TaskStatusMissed:
		kind = event.KindTaskMissed
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:    kind,
		ActorID: actorID,
		Project: p,
		Task:    t,
		At:      time.Now(),
	})
	return nil
}

func (s *TaskService) Delete(ctx context.Context, actorID, taskID int64) error {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return err
	}
	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:    event.KindTaskDeleted,
		ActorID: actorID,
		Project: p,
		Task:    t,
		At:      time.Now(),
	})
	return nil
}

// Assign adds a user to the task. The event fires only when the membership
// actually changed; re-assigning an already assigned user is a no-op.
func (s *TaskService) Assign(ctx context.Context, actorID, taskID, userID int64) error {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return err
	}

	added, err := s.tasks.Assign(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		s.logger.Warn("Assignment saved but project lookup failed, skipping event",
			zap.Int64("task_id", taskID),
			zap.Error(err),
		)
		return nil
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:         event.KindTaskAssigned,
		ActorID:      actorID,
		Project:      p,
		Task:         t,
		TargetUserID: userID,
		At:           time.Now(),
	})
	return nil
}

func (s *TaskService) Unassign(ctx context.Context, actorID, taskID, userID int64) error {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return err
	}

	removed, err := s.tasks.Unassign(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	p, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		s.logger.Warn("Unassignment saved but project lookup failed, skipping event",
			zap.Int64("task_id", taskID),
			zap.Error(err),
		)
		return nil
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:         event.KindTaskUnassigned,
		ActorID:      actorID,
		Project:      p,
		Task:         t,
		TargetUserID: userID,
		At:           time.Now(),
	})
	return nil
}
