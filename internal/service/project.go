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

// EventSink receives events for mutations that already committed.
type EventSink interface {
	Dispatch(ctx context.Context, events ...event.Event)
}

type ProjectService struct {
	projects   *repository.ProjectRepository
	members    *repository.MemberRepository
	authz      *Authz
	dispatcher EventSink
	logger     *zap.Logger
}

func NewProjectService(
	projects *repository.ProjectRepository,
	members *repository.MemberRepository,
	authz *Authz,
	dispatcher EventSink,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		members:    members,
		authz:      authz,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Create inserts the project, enrolls the owner and any initial members for
// collaborative projects, and emits the corresponding events.
func (s *ProjectService) Create(ctx context.Context, actorID int64, p *model.Project, memberIDs []int64) error {
	p.OwnerID = actorID
	if p.Status == "" {
		p.Status = model.ProjectStatusToDo
	}
	if p.Priority == "" {
		p.Priority = model.PriorityMedium
	}
	if p.Type == "" {
		p.Type = model.ProjectTypeCollaborative
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now()
	}
	if !model.ValidProjectStatus(p.Status) || !model.ValidPriority(p.Priority) || !model.ValidProjectType(p.Type) {
		return fmt.Errorf("invalid project fields: %w", model.ErrInvalid)
	}

	if err := s.projects.Insert(ctx, p); err != nil {
		return err
	}

	now := time.Now()
	events := []event.Event{{
		Kind:    event.KindProjectCreated,
		ActorID: actorID,
		Project: p,
		At:      now,
	}}

	if p.Type == model.ProjectTypeCollaborative {
		owner := &model.TeamMember{ProjectID: p.ID, UserID: actorID, Role: model.RoleOwner}
		if err := s.members.Insert(ctx, owner); err != nil {
			s.logger.Warn("Failed to enroll owner as team member",
				zap.Int64("project_id", p.ID),
				zap.Error(err),
			)
		}
	}

	for _, uid := range memberIDs {
		if uid == actorID {
			continue
		}
		m := &model.TeamMember{ProjectID: p.ID, UserID: uid, Role: model.RoleMember}
		if err := s.members.Insert(ctx, m); err != nil {
			// Unknown user ids in the request are skipped, not fatal.
			s.logger.Warn("Failed to enroll initial member",
				zap.Int64("project_id", p.ID),
				zap.Int64("user_id", uid),
				zap.Error(err),
			)
			continue
		}
		events = append(events, event.Event{
			Kind:         event.KindMemberAdded,
			ActorID:      actorID,
			Project:      p,
			TargetUserID: uid,
			At:           now,
		})
	}

	s.dispatcher.Dispatch(ctx, events...)
	return nil
}

func (s *ProjectService) Get(ctx context.Context, actorID, projectID int64) (*model.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, actorID int64, projectType string) ([]model.Project, error) {
	return s.projects.ListForUser(ctx, actorID, projectType)
}

func (s *ProjectService) Update(ctx context.Context, actorID int64, p *model.Project) error {
	existing, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckOwner(ctx, actorID, existing); err != nil {
		return err
	}
	if !model.ValidProjectStatus(p.Status) || !model.ValidPriority(p.Priority) || !model.ValidProjectType(p.Type) {
		return fmt.Errorf("invalid project fields: %w", model.ErrInvalid)
	}
	p.OwnerID = existing.OwnerID

	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:    event.KindProjectUpdated,
		ActorID: actorID,
		Project: p,
		At:      time.Now(),
	})
	return nil
}

// Delete cascades to tasks, members and expenses. Activity logs survive with
// a nulled project reference.
func (s *ProjectService) Delete(ctx context.Context, actorID, projectID int64) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckOwner(ctx, actorID, p); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:    event.KindProjectDeleted,
		ActorID: actorID,
		Project: p,
		At:      time.Now(),
	})
	return nil
}
