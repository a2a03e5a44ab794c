package service

import (
	"context"

	"projecthub/internal/model"
	"projecthub/internal/repository"
)

// DashboardStats summarizes the caller's workload across all their projects.
type DashboardStats struct {
	Projects       int             `json:"projects"`
	AssignedTasks  int             `json:"assigned_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	PendingTasks   int             `json:"pending_tasks"`
	MissedTasks    int             `json:"missed_tasks"`
	RecentProjects []model.Project `json:"recent_projects"`
}

type DashboardService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
}

func NewDashboardService(tasks *repository.TaskRepository, projects *repository.ProjectRepository) *DashboardService {
	return &DashboardService{tasks: tasks, projects: projects}
}

func (s *DashboardService) Stats(ctx context.Context, userID int64) (*DashboardStats, error) {
	projects, err := s.projects.ListForUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Projects: len(projects)}
	// ListForUser orders newest first.
	recent := projects
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentProjects = recent

	counts := []struct {
		dst      *int
		statuses []string
	}{
		{&stats.AssignedTasks, []string{}},
		{&stats.CompletedTasks, []string{model.TaskStatusDone}},
		{&stats.PendingTasks, []string{model.TaskStatusPending, model.TaskStatusInProgress}},
		{&stats.MissedTasks, []string{model.TaskStatusMissed}},
	}
	for _, c := range counts {
		n, err := s.tasks.CountAssignedByStatus(ctx, userID, c.statuses)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}
