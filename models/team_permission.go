package models

import "time"

type TeamRole string

const (
	TeamRoleOwner   TeamRole = "owner"
	TeamRoleManager TeamRole = "manager"
	TeamRoleMember  TeamRole = "member"
)

func (r TeamRole) Valid() bool {
	switch r {
	case TeamRoleOwner, TeamRoleManager, TeamRoleMember:
		return true
	}
	return false
}

type TeamPermission struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	TeamID    string    `bson:"team_id" json:"team_id"`
	Role      TeamRole  `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type TeamPermissionCreate struct {
	UserID string   `json:"user_id"`
	TeamID string   `json:"team_id"`
	Role   TeamRole `json:"role"`
}

type TeamPermissionUpdate struct {
	Role TeamRole `json:"role"`
}

type TeamPermissionList struct {
	Permissions []TeamPermission `json:"permissions"`
	Total       int64            `json:"total"`
}

const (
	PermissionActionAdd    = "add"
	PermissionActionUpdate = "update"
	PermissionActionRemove = "remove"
)

type TeamPermissionHistory struct {
	ID        string    `bson:"_id" json:"id"`
	TeamID    string    `bson:"team_id" json:"team_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Role      TeamRole  `bson:"role" json:"role"`
	Action    string    `bson:"action" json:"action"`
	ChangedBy string    `bson:"changed_by" json:"changed_by"`
	ChangedAt time.Time `bson:"changed_at" json:"changed_at"`
	Reason    *string   `bson:"reason,omitempty" json:"reason,omitempty"`
}
