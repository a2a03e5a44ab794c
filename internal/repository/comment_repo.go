package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

type CommentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCommentRepository(db *pgxpool.Pool, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{db: db, logger: logger}
}

func (r *CommentRepository) Insert(ctx context.Context, c *model.Comment) error {
	query := `
        INSERT INTO comments (task_id, author_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, c.TaskID, c.AuthorID, c.Content).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert comment",
			zap.Int64("task_id", c.TaskID),
			zap.Int64("author_id", c.AuthorID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// GetByID resolves the comment together with its project scope.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
        SELECT c.id, c.task_id, t.project_id, c.author_id, c.content, c.created_at
        FROM comments c
        JOIN tasks t ON t.id = c.task_id
        WHERE c.id = $1
    `
	var c model.Comment
	err := r.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.TaskID, &c.ProjectID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete comment", zap.Int64("comment_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error) {
	query := `
        SELECT c.id, c.task_id, t.project_id, c.author_id, c.content, c.created_at
        FROM comments c
        JOIN tasks t ON t.id = c.task_id
        WHERE c.task_id = $1
        ORDER BY c.created_at
    `
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		r.logger.Error("Failed to query comments", zap.Int64("task_id", taskID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.ProjectID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
