package service

import (
	"context"
	"fmt"
	"time"

	"projecthub/internal/event"
	"projecthub/internal/model"
	"projecthub/internal/repository"
)

type MemberService struct {
	members    *repository.MemberRepository
	projects   *repository.ProjectRepository
	authz      *Authz
	dispatcher EventSink
}

func NewMemberService(
	members *repository.MemberRepository,
	projects *repository.ProjectRepository,
	authz *Authz,
	dispatcher EventSink,
) *MemberService {
	return &MemberService{
		members:    members,
		projects:   projects,
		authz:      authz,
		dispatcher: dispatcher,
	}
}

func (s *MemberService) Add(ctx context.Context, actorID int64, m *model.TeamMember) error {
	p, err := s.projects.GetByID(ctx, m.ProjectID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckOwner(ctx, actorID, p); err != nil {
		return err
	}
	if m.Role == "" {
		m.Role = model.RoleMember
	}
	if !model.ValidRole(m.Role) {
		return fmt.Errorf("invalid member role %q: %w", m.Role, model.ErrInvalid)
	}

	if err := s.members.Insert(ctx, m); err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:         event.KindMemberAdded,
		ActorID:      actorID,
		Project:      p,
		TargetUserID: m.UserID,
		At:           time.Now(),
	})
	return nil
}

func (s *MemberService) List(ctx context.Context, actorID, projectID int64) ([]model.TeamMember, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, p); err != nil {
		return nil, err
	}
	return s.members.ListByProject(ctx, projectID)
}

func (s *MemberService) Remove(ctx context.Context, actorID, memberID int64) error {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	p, err := s.projects.GetByID(ctx, m.ProjectID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckOwner(ctx, actorID, p); err != nil {
		return err
	}
	if m.UserID == p.OwnerID {
		return fmt.Errorf("cannot remove the project owner: %w", model.ErrForbidden)
	}

	if err := s.members.Delete(ctx, memberID); err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, event.Event{
		Kind:         event.KindMemberRemoved,
		ActorID:      actorID,
		Project:      p,
		TargetUserID: m.UserID,
		At:           time.Now(),
	})
	return nil
}
