package model

import "time"

const (
	ProjectStatusToDo       = "To Do"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusDone       = "Done"
	ProjectStatusArchived   = "Archived"

	ProjectTypePersonal      = "Personal"
	ProjectTypeCollaborative = "Collaborative"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Project struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Type        string     `json:"project_type"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Project) AuthorizationScope() int64 { return p.ID }

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusToDo, ProjectStatusInProgress, ProjectStatusDone, ProjectStatusArchived:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidProjectType(s string) bool {
	return s == ProjectTypePersonal || s == ProjectTypeCollaborative
}
