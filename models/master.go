package models

import (
	"fmt"
	"strings"
	"time"
)

// MasterTime is a point in time parsed from the JDL master snapshot.
// The master CSV may carry an explicit UTC offset or a naive local timestamp;
// the two are not safely comparable, so the flag is kept alongside the instant.
type MasterTime struct {
	Time      time.Time
	HasOffset bool
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseMasterTime parses an ISO-8601 timestamp. A trailing "Z" is accepted as
// UTC offset. Timestamps without any offset parse as naive (HasOffset=false).
func ParseMasterTime(value string) (MasterTime, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return MasterTime{}, fmt.Errorf("last_updated field is empty")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return MasterTime{Time: t, HasOffset: true}, nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MasterTime{Time: t, HasOffset: false}, nil
		}
	}

	return MasterTime{}, fmt.Errorf("invalid last_updated format (ISO 8601 expected): %s", value)
}

// After reports whether t is strictly later than other. Only meaningful when
// both sides carry the same offset tag.
func (t MasterTime) After(other MasterTime) bool {
	return t.Time.After(other.Time)
}

// String renders the timestamp in a form ParseMasterTime round-trips.
func (t MasterTime) String() string {
	if t.HasOffset {
		return t.Time.Format(time.RFC3339)
	}
	return t.Time.Format("2006-01-02T15:04:05")
}

// MasterRecord is one validated row of the JDL master snapshot. It is
// ephemeral: parsed per sync run and discarded afterwards.
type MasterRecord struct {
	JDLID              string
	Name               string
	ParticipationCount int
	CurrentClass       string
	LastUpdated        MasterTime
}
