package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jdl-league/constructor-system/models"
)

// normalizeWatermark converts a stored last_synced_from_master value into a
// tagged MasterTime. The sync path writes the watermark as the ISO-8601 string
// it came from, preserving the offset/naive distinction; legacy documents may
// carry a BSON datetime, which is always a UTC instant and therefore treated
// as offset-aware. Anything else is an unsupported representation: the second
// return value is false and the watermark is treated as absent.
func normalizeWatermark(raw bson.RawValue) (*models.MasterTime, bool) {
	switch raw.Type {
	case bsontype.Type(0), bsontype.Null, bsontype.Undefined:
		return nil, true
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			return nil, false
		}
		t, err := models.ParseMasterTime(s)
		if err != nil {
			return nil, false
		}
		return &t, true
	case bsontype.DateTime:
		dt, ok := raw.DateTimeOK()
		if !ok {
			return nil, false
		}
		t := primitive.DateTime(dt).Time().UTC()
		return &models.MasterTime{Time: t, HasOffset: true}, true
	default:
		return nil, false
	}
}
