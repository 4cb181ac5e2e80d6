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

var ErrClassChangeNotFound = errors.New("class change history not found")

// ClassChangeApprovalUpdate carries the fields an approval writes to the
// history document and, when approved, to the player document.
type ClassChangeApprovalUpdate struct {
	Status     string
	ApprovedBy string
	ApprovedAt time.Time
	Comment    *string
	NewClass   string
	Approved   bool
}

type ClassChangeRepository interface {
	Create(ctx context.Context, history *models.ClassChangeHistory) error
	GetByID(ctx context.Context, id string) (*models.ClassChangeHistory, error)
	ListByPlayer(ctx context.Context, playerID string, limit, offset int64) ([]models.ClassChangeHistory, error)
	ApplyApproval(ctx context.Context, historyID, playerID string, update ClassChangeApprovalUpdate) (*models.ClassChangeHistory, error)
}

type mongoClassChangeRepository struct {
	client  *mongo.Client
	col     *mongo.Collection
	players *mongo.Collection
}

func NewMongoClassChangeRepository(client *mongo.Client, db *mongo.Database) ClassChangeRepository {
	return &mongoClassChangeRepository{
		client:  client,
		col:     db.Collection("class_change_history"),
		players: db.Collection("players"),
	}
}

func (r *mongoClassChangeRepository) Create(ctx context.Context, history *models.ClassChangeHistory) error {
	res, err := r.col.InsertOne(ctx, history)
	if err != nil {
		return fmt.Errorf("failed to insert class change history: %w", err)
	}
	history.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoClassChangeRepository) GetByID(ctx context.Context, id string) (*models.ClassChangeHistory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrClassChangeNotFound
	}

	var history models.ClassChangeHistory
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&history)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrClassChangeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class change history %s: %w", id, err)
	}
	return &history, nil
}

func (r *mongoClassChangeRepository) ListByPlayer(ctx context.Context, playerID string, limit, offset int64) ([]models.ClassChangeHistory, error) {
	cursor, err := r.col.Find(ctx, bson.M{"player_id": playerID}, options.Find().
		SetSort(bson.D{{Key: "requested_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list class change history: %w", err)
	}
	defer cursor.Close(ctx)

	var histories []models.ClassChangeHistory
	if err := cursor.All(ctx, &histories); err != nil {
		return nil, fmt.Errorf("failed to decode class change history: %w", err)
	}
	return histories, nil
}

// ApplyApproval updates the history document and, on approval, the player's
// class inside one transaction so the two can never diverge.
func (r *mongoClassChangeRepository) ApplyApproval(ctx context.Context, historyID, playerID string, update ClassChangeApprovalUpdate) (*models.ClassChangeHistory, error) {
	historyOID, err := primitive.ObjectIDFromHex(historyID)
	if err != nil {
		return nil, ErrClassChangeNotFound
	}
	playerOID, err := primitive.ObjectIDFromHex(playerID)
	if err != nil {
		return nil, ErrPlayerNotFound
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	historySet := bson.M{
		"status":      update.Status,
		"approved_by": update.ApprovedBy,
		"approved_at": update.ApprovedAt,
		"comment":     update.Comment,
	}

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if update.Approved {
			res, err := r.players.UpdateOne(sc,
				bson.M{"_id": playerOID},
				bson.M{"$set": bson.M{
					"current_class": update.NewClass,
					"updated_at":    update.ApprovedAt,
				}})
			if err != nil {
				return nil, fmt.Errorf("failed to update player class: %w", err)
			}
			if res.MatchedCount == 0 {
				return nil, ErrPlayerNotFound
			}
		}

		var history models.ClassChangeHistory
		err := r.col.FindOneAndUpdate(sc,
			bson.M{"_id": historyOID},
			bson.M{"$set": historySet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&history)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrClassChangeNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update class change history: %w", err)
		}
		return &history, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.ClassChangeHistory), nil
}
