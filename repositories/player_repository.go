package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdl-league/constructor-system/models"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerRef is the minimal projection the integrity checker scans.
type PlayerRef struct {
	DocID  string
	JDLID  string
	TeamID string
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Player, error)
	List(ctx context.Context, teamID *string, limit, offset int64) ([]models.Player, int64, error)
	ExistsByJDLID(ctx context.Context, jdlID string) (bool, error)
	CountByTeamID(ctx context.Context, teamID string) (int64, error)
	StreamRefs(ctx context.Context) ([]PlayerRef, error)
}

type mongoPlayerRepository struct {
	col *mongo.Collection
}

func NewMongoPlayerRepository(db *mongo.Database) PlayerRepository {
	return &mongoPlayerRepository{col: db.Collection("players")}
}

func (r *mongoPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	now := time.Now().UTC()
	player.CreatedAt = now
	player.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, player)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	player.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPlayerNotFound
	}

	var player models.Player
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&player)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &player, nil
}

func (r *mongoPlayerRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Player, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPlayerNotFound
	}

	var player models.Player
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&player)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update player %s: %w", id, err)
	}
	return &player, nil
}

func (r *mongoPlayerRepository) List(ctx context.Context, teamID *string, limit, offset int64) ([]models.Player, int64, error) {
	filter := bson.M{}
	if teamID != nil {
		filter["team_id"] = *teamID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count players: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().
		SetSkip(offset).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, 0, fmt.Errorf("failed to decode players: %w", err)
	}
	return players, total, nil
}

func (r *mongoPlayerRepository) ExistsByJDLID(ctx context.Context, jdlID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"jdl_id": jdlID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check jdl_id %s: %w", jdlID, err)
	}
	return count > 0, nil
}

func (r *mongoPlayerRepository) CountByTeamID(ctx context.Context, teamID string) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}
	return count, nil
}

func (r *mongoPlayerRepository) StreamRefs(ctx context.Context) ([]PlayerRef, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().
		SetProjection(bson.M{"jdl_id": 1, "team_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to stream players: %w", err)
	}
	defer cursor.Close(ctx)

	var refs []PlayerRef
	for cursor.Next(ctx) {
		var raw struct {
			ID     primitive.ObjectID `bson:"_id"`
			JDLID  string             `bson:"jdl_id"`
			TeamID string             `bson:"team_id"`
		}
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode player ref: %w", err)
		}
		refs = append(refs, PlayerRef{DocID: raw.ID.Hex(), JDLID: raw.JDLID, TeamID: raw.TeamID})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to stream players: %w", err)
	}
	return refs, nil
}
