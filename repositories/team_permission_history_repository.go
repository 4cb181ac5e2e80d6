package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdl-league/constructor-system/models"
)

type TeamPermissionHistoryRepository interface {
	Create(ctx context.Context, history *models.TeamPermissionHistory) error
	ListByTeam(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermissionHistory, int64, error)
}

type mongoTeamPermissionHistoryRepository struct {
	col *mongo.Collection
}

func NewMongoTeamPermissionHistoryRepository(db *mongo.Database) TeamPermissionHistoryRepository {
	return &mongoTeamPermissionHistoryRepository{col: db.Collection("team_permission_histories")}
}

func (r *mongoTeamPermissionHistoryRepository) Create(ctx context.Context, history *models.TeamPermissionHistory) error {
	if _, err := r.col.InsertOne(ctx, history); err != nil {
		return fmt.Errorf("failed to insert team permission history: %w", err)
	}
	return nil
}

func (r *mongoTeamPermissionHistoryRepository) ListByTeam(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermissionHistory, int64, error) {
	filter := bson.M{"team_id": teamID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count team permission histories: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "changed_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list team permission histories: %w", err)
	}
	defer cursor.Close(ctx)

	var histories []models.TeamPermissionHistory
	if err := cursor.All(ctx, &histories); err != nil {
		return nil, 0, fmt.Errorf("failed to decode team permission histories: %w", err)
	}
	return histories, total, nil
}
