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

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Team, error)
	ListByStatus(ctx context.Context, status string) ([]models.Team, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type mongoTeamRepository struct {
	col *mongo.Collection
}

func NewMongoTeamRepository(db *mongo.Database) TeamRepository {
	return &mongoTeamRepository{col: db.Collection("teams")}
}

func (r *mongoTeamRepository) Create(ctx context.Context, team *models.Team) error {
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, team)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	team.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTeamNotFound
	}

	var team models.Team
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&team)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return &team, nil
}

func (r *mongoTeamRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTeamNotFound
	}

	var team models.Team
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&team)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update team %s: %w", id, err)
	}
	return &team, nil
}

func (r *mongoTeamRepository) ListByStatus(ctx context.Context, status string) ([]models.Team, error) {
	cursor, err := r.col.Find(ctx, bson.M{"status": status},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	return teams, nil
}

func (r *mongoTeamRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check team name %q: %w", name, err)
	}
	return count > 0, nil
}

func (r *mongoTeamRepository) ListIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list team ids: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var raw struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode team id: %w", err)
		}
		ids = append(ids, raw.ID.Hex())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list team ids: %w", err)
	}
	return ids, nil
}
