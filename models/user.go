package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleGeneral = "general"
)

// User documents are keyed by the auth provider's uid.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      *string   `bson:"name,omitempty" json:"name,omitempty"`
	Role      string    `bson:"role,omitempty" json:"role"`
	IsAdmin   bool      `bson:"is_admin" json:"is_admin"`
	IsLocked  bool      `bson:"is_locked" json:"is_locked"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type UserList struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
}
