package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jdl-league/constructor-system/models"
)

// PlayerSyncDoc is the slice of a stored player document the master sync
// reconciler compares against.
type PlayerSyncDoc struct {
	ID                   string
	JDLID                string
	LastSyncedFromMaster *models.MasterTime
}

// PlayerSyncFields is the partial update a sync run stages for one player.
// Every other stored field is left untouched.
type PlayerSyncFields struct {
	Name                 string
	ParticipationCount   int
	CurrentClass         string
	LastSyncedFromMaster models.MasterTime
	UpdatedAt            time.Time
}

type PlayerSyncStore interface {
	StreamAll(ctx context.Context) ([]PlayerSyncDoc, error)
	NewBatch() PlayerSyncBatch
}

// PlayerSyncBatch stages partial updates and applies them atomically on
// Commit. A failed Commit applies nothing.
type PlayerSyncBatch interface {
	Update(docID string, fields PlayerSyncFields)
	Len() int
	Commit(ctx context.Context) error
}

type mongoPlayerSyncStore struct {
	client *mongo.Client
	col    *mongo.Collection
	logger *slog.Logger
}

func NewMongoPlayerSyncStore(client *mongo.Client, db *mongo.Database, logger *slog.Logger) PlayerSyncStore {
	return &mongoPlayerSyncStore{
		client: client,
		col:    db.Collection("players"),
		logger: logger,
	}
}

func (s *mongoPlayerSyncStore) StreamAll(ctx context.Context) ([]PlayerSyncDoc, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query players collection: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []PlayerSyncDoc
	for cursor.Next(ctx) {
		var raw struct {
			ID        primitive.ObjectID `bson:"_id"`
			JDLID     string             `bson:"jdl_id"`
			Watermark bson.RawValue      `bson:"last_synced_from_master"`
		}
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode player document: %w", err)
		}

		watermark, ok := normalizeWatermark(raw.Watermark)
		if !ok {
			s.logger.Warn("unsupported last_synced_from_master representation, treating as absent",
				slog.String("doc_id", raw.ID.Hex()),
				slog.String("jdl_id", raw.JDLID),
				slog.String("bson_type", raw.Watermark.Type.String()))
		}

		docs = append(docs, PlayerSyncDoc{
			ID:                   raw.ID.Hex(),
			JDLID:                raw.JDLID,
			LastSyncedFromMaster: watermark,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to stream players collection: %w", err)
	}

	return docs, nil
}

func (s *mongoPlayerSyncStore) NewBatch() PlayerSyncBatch {
	return &mongoPlayerSyncBatch{store: s}
}

type mongoPlayerSyncBatch struct {
	store  *mongoPlayerSyncStore
	writes []mongo.WriteModel
	err    error
}

func (b *mongoPlayerSyncBatch) Update(docID string, fields PlayerSyncFields) {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("invalid document id %q: %w", docID, err)
		}
		return
	}

	set := bson.M{
		"name":                    fields.Name,
		"participation_count":     fields.ParticipationCount,
		"current_class":           fields.CurrentClass,
		"last_synced_from_master": fields.LastSyncedFromMaster.String(),
		"updated_at":              fields.UpdatedAt,
	}

	b.writes = append(b.writes, mongo.NewUpdateOneModel().
		SetFilter(bson.M{"_id": oid}).
		SetUpdate(bson.M{"$set": set}))
}

func (b *mongoPlayerSyncBatch) Len() int {
	return len(b.writes)
}

// Commit runs the staged updates inside one session transaction. A bulk write
// alone is not atomic across documents; the transaction makes the batch
// all-or-nothing.
func (b *mongoPlayerSyncBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.writes) == 0 {
		return nil
	}

	session, err := b.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session for batch commit: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return b.store.col.BulkWrite(sc, b.writes)
	})
	if err != nil {
		return fmt.Errorf("batch commit failed: %w", err)
	}
	return nil
}
