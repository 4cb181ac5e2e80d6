package models

import "time"

// SystemSetting documents are keyed by the setting key itself.
type SystemSetting struct {
	Key         string      `bson:"_id" json:"key"`
	Value       interface{} `bson:"value" json:"value"`
	Description *string     `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}

type SystemSettingCreate struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Description *string     `json:"description"`
}

type SystemSettingUpdate struct {
	Value       interface{} `json:"value"`
	Description *string     `json:"description"`
}
