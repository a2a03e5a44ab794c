package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

const projectColumns = `id, owner_id, title, description, status, priority, project_type,
       start_date, end_date, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.Priority,
		&p.Type, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	query := `
        INSERT INTO projects (owner_id, title, description, status, priority, project_type, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.OwnerID, p.Title, p.Description, p.Status, p.Priority, p.Type, p.StartDate, p.EndDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project",
			zap.Int64("owner_id", p.OwnerID),
			zap.String("title", p.Title),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Project created", zap.Int64("project_id", p.ID), zap.Int64("owner_id", p.OwnerID))
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET title = $1, description = $2, status = $3, priority = $4,
            project_type = $5, start_date = $6, end_date = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Title, p.Description, p.Status, p.Priority, p.Type, p.StartDate, p.EndDate, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update project", zap.Int64("project_id", p.ID), zap.Error(err))
	}
	return err
}

// Delete removes the project. Tasks, team members and expenses cascade;
// activity logs keep a nulled project reference (schema-level SET NULL).
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int64("project_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	r.logger.Info("Project deleted", zap.Int64("project_id", id))
	return nil
}

// ListForUser returns projects the user owns or belongs to, optionally
// filtered by project type.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int64, projectType string) ([]model.Project, error) {
	query := `
        SELECT DISTINCT p.id, p.owner_id, p.title, p.description, p.status, p.priority,
               p.project_type, p.start_date, p.end_date, p.created_at, p.updated_at
        FROM projects p
        LEFT JOIN team_members tm ON tm.project_id = p.id
        WHERE (p.owner_id = $1 OR tm.user_id = $1)
        AND ($2 = '' OR p.project_type = $2)
        ORDER BY p.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID, projectType)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.Priority,
			&p.Type, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// IsOwnerOrMember answers the uniform permission question for a project scope.
func (r *ProjectRepository) IsOwnerOrMember(ctx context.Context, projectID, userID int64) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM projects p
            LEFT JOIN team_members tm ON tm.project_id = p.id AND tm.user_id = $2
            WHERE p.id = $1 AND (p.owner_id = $2 OR tm.user_id IS NOT NULL)
        )
    `
	var ok bool
	if err := r.db.QueryRow(ctx, query, projectID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
