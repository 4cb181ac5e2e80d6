package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdl-league/constructor-system/models"
)

var ErrTeamPermissionNotFound = errors.New("team permission not found")

type TeamPermissionRepository interface {
	Create(ctx context.Context, permission *models.TeamPermission) error
	GetByID(ctx context.Context, id string) (*models.TeamPermission, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.TeamPermission, error)
	Delete(ctx context.Context, id string) error
	FindByUserAndTeam(ctx context.Context, userID, teamID string) (*models.TeamPermission, error)
	ListByTeam(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermission, int64, error)
}

type mongoTeamPermissionRepository struct {
	col *mongo.Collection
}

func NewMongoTeamPermissionRepository(db *mongo.Database) TeamPermissionRepository {
	return &mongoTeamPermissionRepository{col: db.Collection("team_permissions")}
}

func (r *mongoTeamPermissionRepository) Create(ctx context.Context, permission *models.TeamPermission) error {
	if _, err := r.col.InsertOne(ctx, permission); err != nil {
		return fmt.Errorf("failed to insert team permission: %w", err)
	}
	return nil
}

func (r *mongoTeamPermissionRepository) GetByID(ctx context.Context, id string) (*models.TeamPermission, error) {
	var permission models.TeamPermission
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&permission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTeamPermissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team permission %s: %w", id, err)
	}
	return &permission, nil
}

func (r *mongoTeamPermissionRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.TeamPermission, error) {
	var permission models.TeamPermission
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&permission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTeamPermissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update team permission %s: %w", id, err)
	}
	return &permission, nil
}

func (r *mongoTeamPermissionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete team permission %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrTeamPermissionNotFound
	}
	return nil
}

func (r *mongoTeamPermissionRepository) FindByUserAndTeam(ctx context.Context, userID, teamID string) (*models.TeamPermission, error) {
	var permission models.TeamPermission
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "team_id": teamID}).Decode(&permission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTeamPermissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team permission: %w", err)
	}
	return &permission, nil
}

func (r *mongoTeamPermissionRepository) ListByTeam(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermission, int64, error) {
	filter := bson.M{"team_id": teamID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count team permissions: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list team permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []models.TeamPermission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode team permissions: %w", err)
	}
	return permissions, total, nil
}
