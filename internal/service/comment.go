package service

import (
	"context"

	"projecthub/internal/model"
	"projecthub/internal/repository"
)

type CommentService struct {
	comments *repository.CommentRepository
	tasks    *repository.TaskRepository
	authz    *Authz
}

func NewCommentService(comments *repository.CommentRepository, tasks *repository.TaskRepository, authz *Authz) *CommentService {
	return &CommentService{comments: comments, tasks: tasks, authz: authz}
}

func (s *CommentService) Create(ctx context.Context, actorID int64, c *model.Comment) error {
	t, err := s.tasks.GetByID(ctx, c.TaskID)
	if err != nil {
		return err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return err
	}
	c.AuthorID = actorID
	c.ProjectID = t.ProjectID
	return s.comments.Insert(ctx, c)
}

func (s *CommentService) ListByTask(ctx context.Context, actorID, taskID int64) ([]model.Comment, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

// Delete allows the comment author and the project owner.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID int64) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != actorID {
		if err := s.authz.CheckOwner(ctx, actorID, c); err != nil {
			return err
		}
	}
	return s.comments.Delete(ctx, commentID)
}
