package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdl-league/constructor-system/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	MarkAsRead(ctx context.Context, id string) error
	ListUnread(ctx context.Context, userID string) ([]models.Notification, error)
}

type mongoNotificationRepository struct {
	col *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{col: db.Collection("notifications")}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	res, err := r.col.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	notification.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification id %q: %w", id, err)
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"read": true}}); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	cursor, err := r.col.Find(ctx,
		bson.M{"user_id": userID, "read": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}
