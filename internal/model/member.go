package model

import "time"

const (
	RoleOwner  = "Owner"
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

// TeamMember grants a user access to a project short of ownership. The
// (project, user) pair is unique.
type TeamMember struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (m *TeamMember) AuthorizationScope() int64 { return m.ProjectID }

func ValidRole(s string) bool {
	switch s {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}
