package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidClasses are the JDL player classes, strongest first.
var ValidClasses = []string{"A", "B", "C", "D", "E"}

func IsValidClass(class string) bool {
	for _, c := range ValidClasses {
		if c == class {
			return true
		}
	}
	return false
}

type ClassHistory struct {
	OldClass   string    `bson:"old_class" json:"old_class"`
	NewClass   string    `bson:"new_class" json:"new_class"`
	ChangedAt  time.Time `bson:"changed_at" json:"changed_at"`
	Reason     string    `bson:"reason" json:"reason"`
	ApprovedBy *string   `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
}

// Player omits last_synced_from_master on purpose: the field belongs to the
// master sync subsystem and partial updates never touch it from here.
type Player struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	JDLID              string             `bson:"jdl_id" json:"jdl_id"`
	TeamID             *string            `bson:"team_id,omitempty" json:"team_id,omitempty"`
	ParticipationCount int                `bson:"participation_count" json:"participation_count"`
	CurrentClass       string             `bson:"current_class" json:"current_class"`
	ClassHistory       []ClassHistory     `bson:"class_history,omitempty" json:"class_history"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`

	TeamName *string `bson:"-" json:"team_name,omitempty"`
}

type PlayerCreate struct {
	Name               string  `json:"name"`
	JDLID              string  `json:"jdl_id"`
	TeamID             *string `json:"team_id"`
	ParticipationCount int     `json:"participation_count"`
	CurrentClass       string  `json:"current_class"`
}

type PlayerUpdate struct {
	Name               *string `json:"name"`
	TeamID             *string `json:"team_id"`
	ParticipationCount *int    `json:"participation_count"`
	CurrentClass       *string `json:"current_class"`
}

type PlayerList struct {
	Items []Player `json:"items"`
	Total int64    `json:"total"`
}
