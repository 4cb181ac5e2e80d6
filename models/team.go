package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TeamStatusActive   = "active"
	TeamStatusInactive = "inactive"
)

type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	LogoURL     *string            `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	ManagerID   string             `bson:"manager_id" json:"manager_id"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`

	LogoKey     *string `bson:"logo_key,omitempty" json:"-"`
	MemberCount int64   `bson:"-" json:"member_count"`
}

type TeamCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

type TeamUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	ManagerID   *string `json:"manager_id"`
}
