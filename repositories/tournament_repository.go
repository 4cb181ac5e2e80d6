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

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus, limit, offset int64) ([]models.Tournament, int64, error)
	AppendEntry(ctx context.Context, id string, entry models.Entry, updatedAt time.Time) (*models.Tournament, error)
}

type mongoTournamentRepository struct {
	col *mongo.Collection
}

func NewMongoTournamentRepository(db *mongo.Database) TournamentRepository {
	return &mongoTournamentRepository{col: db.Collection("tournaments")}
}

func (r *mongoTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	now := time.Now().UTC()
	tournament.CreatedAt = now
	tournament.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, tournament)
	if err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	tournament.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTournamentNotFound
	}

	var tournament models.Tournament
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&tournament)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return &tournament, nil
}

func (r *mongoTournamentRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tournament, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTournamentNotFound
	}

	var tournament models.Tournament
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tournament)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tournament %s: %w", id, err)
	}
	return &tournament, nil
}

func (r *mongoTournamentRepository) List(ctx context.Context, status *models.TournamentStatus, limit, offset int64) ([]models.Tournament, int64, error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tournaments: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().
		SetSkip(offset).
		SetLimit(limit).
		SetSort(bson.D{{Key: "start_date", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer cursor.Close(ctx)

	var tournaments []models.Tournament
	if err := cursor.All(ctx, &tournaments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tournaments: %w", err)
	}
	return tournaments, total, nil
}

// AppendEntry pushes the entry and bumps the counter in one update so two
// concurrent entries cannot both observe the same current_entries value.
func (r *mongoTournamentRepository) AppendEntry(ctx context.Context, id string, entry models.Entry, updatedAt time.Time) (*models.Tournament, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTournamentNotFound
	}

	var tournament models.Tournament
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"entries": entry},
			"$inc":  bson.M{"current_entries": 1},
			"$set":  bson.M{"updated_at": updatedAt},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tournament)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append entry to tournament %s: %w", id, err)
	}
	return &tournament, nil
}
