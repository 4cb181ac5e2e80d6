package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TournamentStatus string

const (
	TournamentStatusDraft       TournamentStatus = "draft"
	TournamentStatusEntryOpen   TournamentStatus = "entry_open"
	TournamentStatusEntryClosed TournamentStatus = "entry_closed"
	TournamentStatusInProgress  TournamentStatus = "in_progress"
	TournamentStatusCompleted   TournamentStatus = "completed"
	TournamentStatusCancelled   TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentStatusDraft, TournamentStatusEntryOpen, TournamentStatusEntryClosed,
		TournamentStatusInProgress, TournamentStatusCompleted, TournamentStatusCancelled:
		return true
	}
	return false
}

type ClassRestriction struct {
	ClassName        string `bson:"class_name" json:"class_name"`
	MinParticipation int    `bson:"min_participation" json:"min_participation"`
	MaxParticipation *int   `bson:"max_participation,omitempty" json:"max_participation,omitempty"`
}

type EntryRestriction struct {
	MaxPlayers        int                `bson:"max_players" json:"max_players"`
	MinPlayersPerTeam int                `bson:"min_players_per_team" json:"min_players_per_team"`
	MaxPlayersPerTeam int                `bson:"max_players_per_team" json:"max_players_per_team"`
	ClassRestrictions []ClassRestriction `bson:"class_restrictions,omitempty" json:"class_restrictions"`
}

type Entry struct {
	PlayerID  string    `bson:"player_id" json:"player_id"`
	TeamID    string    `bson:"team_id" json:"team_id"`
	EntryDate time.Time `bson:"entry_date" json:"entry_date"`
	Status    string    `bson:"status" json:"status"`
}

type Tournament struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	StartDate        time.Time          `bson:"start_date" json:"start_date"`
	EndDate          time.Time          `bson:"end_date" json:"end_date"`
	EntryStartDate   time.Time          `bson:"entry_start_date" json:"entry_start_date"`
	EntryEndDate     time.Time          `bson:"entry_end_date" json:"entry_end_date"`
	Venue            string             `bson:"venue" json:"venue"`
	EntryFee         int                `bson:"entry_fee" json:"entry_fee"`
	Status           TournamentStatus   `bson:"status" json:"status"`
	EntryRestriction EntryRestriction   `bson:"entry_restriction" json:"entry_restriction"`
	Entries          []Entry            `bson:"entries,omitempty" json:"entries"`
	CurrentEntries   int                `bson:"current_entries" json:"current_entries"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

type TournamentCreate struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	EntryStartDate   time.Time        `json:"entry_start_date"`
	EntryEndDate     time.Time        `json:"entry_end_date"`
	Venue            string           `json:"venue"`
	EntryFee         int              `json:"entry_fee"`
	Status           TournamentStatus `json:"status"`
	EntryRestriction EntryRestriction `json:"entry_restriction"`
}

type TournamentUpdate struct {
	Name             *string           `json:"name"`
	Description      *string           `json:"description"`
	StartDate        *time.Time        `json:"start_date"`
	EndDate          *time.Time        `json:"end_date"`
	EntryStartDate   *time.Time        `json:"entry_start_date"`
	EntryEndDate     *time.Time        `json:"entry_end_date"`
	Venue            *string           `json:"venue"`
	EntryFee         *int              `json:"entry_fee"`
	Status           *TournamentStatus `json:"status"`
	EntryRestriction *EntryRestriction `json:"entry_restriction"`
}

type EntryCreate struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
}

type TournamentList struct {
	Items []Tournament `json:"items"`
	Total int64        `json:"total"`
}
