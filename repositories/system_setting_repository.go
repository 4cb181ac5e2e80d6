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

var (
	ErrSettingNotFound = errors.New("system setting not found")
	ErrSettingConflict = errors.New("system setting key already exists")
)

type SystemSettingRepository interface {
	Create(ctx context.Context, setting *models.SystemSetting) error
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	GetAll(ctx context.Context) ([]models.SystemSetting, error)
	Update(ctx context.Context, key string, fields map[string]interface{}) (*models.SystemSetting, error)
	Delete(ctx context.Context, key string) error
}

type mongoSystemSettingRepository struct {
	col *mongo.Collection
}

func NewMongoSystemSettingRepository(db *mongo.Database) SystemSettingRepository {
	return &mongoSystemSettingRepository{col: db.Collection("system_settings")}
}

func (r *mongoSystemSettingRepository) Create(ctx context.Context, setting *models.SystemSetting) error {
	_, err := r.col.InsertOne(ctx, setting)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSettingConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert system setting %q: %w", setting.Key, err)
	}
	return nil
}

func (r *mongoSystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get system setting %q: %w", key, err)
	}
	return &setting, nil
}

func (r *mongoSystemSettingRepository) GetAll(ctx context.Context) ([]models.SystemSetting, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list system settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []models.SystemSetting
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode system settings: %w", err)
	}
	return settings, nil
}

func (r *mongoSystemSettingRepository) Update(ctx context.Context, key string, fields map[string]interface{}) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update system setting %q: %w", key, err)
	}
	return &setting, nil
}

func (r *mongoSystemSettingRepository) Delete(ctx context.Context, key string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete system setting %q: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return ErrSettingNotFound
	}
	return nil
}
