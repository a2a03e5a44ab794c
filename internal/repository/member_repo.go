package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

type MemberRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMemberRepository(db *pgxpool.Pool, logger *zap.Logger) *MemberRepository {
	return &MemberRepository{db: db, logger: logger}
}

func (r *MemberRepository) Insert(ctx context.Context, m *model.TeamMember) error {
	query := `
        INSERT INTO team_members (project_id, user_id, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (project_id, user_id) DO NOTHING
        RETURNING id, joined_at
    `
	err := r.db.QueryRow(ctx, query, m.ProjectID, m.UserID, m.Role).
		Scan(&m.ID, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict path: the (project, user) pair already exists.
		return model.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to insert team member",
			zap.Int64("project_id", m.ProjectID),
			zap.Int64("user_id", m.UserID),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Team member added",
		zap.Int64("project_id", m.ProjectID),
		zap.Int64("user_id", m.UserID),
		zap.String("role", m.Role),
	)
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*model.TeamMember, error) {
	query := `
        SELECT id, project_id, user_id, role, joined_at
        FROM team_members WHERE id = $1
    `
	var m model.TeamMember
	err := r.db.QueryRow(ctx, query, id).
		Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete team member", zap.Int64("member_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *MemberRepository) ListByProject(ctx context.Context, projectID int64) ([]model.TeamMember, error) {
	query := `
        SELECT id, project_id, user_id, role, joined_at
        FROM team_members
        WHERE project_id = $1
        ORDER BY joined_at
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query team members", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	members := []model.TeamMember{}
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
