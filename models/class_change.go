package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ClassChangeStatusPending  = "pending"
	ClassChangeStatusApproved = "approved"
	ClassChangeStatusRejected = "rejected"
)

type ClassChangeRequest struct {
	PlayerID string `json:"player_id"`
	NewClass string `json:"new_class"`
	Reason   string `json:"reason"`
}

type ClassChangeApproval struct {
	Approved bool    `json:"approved"`
	Comment  *string `json:"comment"`
}

type ClassChangeHistory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlayerID    string             `bson:"player_id" json:"player_id"`
	OldClass    string             `bson:"old_class" json:"old_class"`
	NewClass    string             `bson:"new_class" json:"new_class"`
	Reason      string             `bson:"reason" json:"reason"`
	RequestedBy string             `bson:"requested_by" json:"requested_by"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
	Status      string             `bson:"status" json:"status"`
	ApprovedBy  *string            `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt  *time.Time         `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	Comment     *string            `bson:"comment,omitempty" json:"comment,omitempty"`
}
