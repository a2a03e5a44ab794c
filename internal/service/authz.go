package service

import (
	"context"
	"errors"

	"projecthub/internal/model"
	"projecthub/internal/repository"
)

// Authz answers the uniform permission question: may this user touch this
// entity? Every project-scoped entity exposes its project id through
// model.Scoped, so there is a single check instead of per-type probing.
type Authz struct {
	projects *repository.ProjectRepository
}

func NewAuthz(projects *repository.ProjectRepository) *Authz {
	return &Authz{projects: projects}
}

// CheckAccess allows project owners and team members.
func (a *Authz) CheckAccess(ctx context.Context, userID int64, entity model.Scoped) error {
	ok, err := a.projects.IsOwnerOrMember(ctx, entity.AuthorizationScope(), userID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrForbidden
	}
	return nil
}

// CheckOwner allows only the project owner.
func (a *Authz) CheckOwner(ctx context.Context, userID int64, entity model.Scoped) error {
	p, err := a.projects.GetByID(ctx, entity.AuthorizationScope())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrForbidden
		}
		return err
	}
	if p.OwnerID != userID {
		return model.ErrForbidden
	}
	return nil
}
