package model

import "time"

// ActivityLog is an append-only audit row. The project, task and user
// references are nullable and set to NULL when their referent is deleted;
// the row itself always survives.
type ActivityLog struct {
	ID        int64     `json:"id"`
	ProjectID *int64    `json:"project_id,omitempty"`
	TaskID    *int64    `json:"task_id,omitempty"`
	UserID    *int64    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
