package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roombook/pkg/config"
	"roombook/pkg/model"
)

// ReservationLogRepository is append-only: entries are never updated or
// removed.
type ReservationLogRepository interface {
	Create(ctx context.Context, entry *model.ReservationLog) error
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ReservationLog, error)
	Count(ctx context.Context) (int64, error)
}

type mongoReservationLogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationLogRepository(cfg *config.Config) ReservationLogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationLogRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationLogsCollection),
	}
}

func (r *mongoReservationLogRepository) Create(ctx context.Context, entry *model.ReservationLog) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create reservation log: %w", err)
	}
	entry.ID = insertedHex(result)
	return nil
}

func (r *mongoReservationLogRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ReservationLog, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.ReservationLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode reservation logs: %w", err)
	}

	return entries, nil
}

func (r *mongoReservationLogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservation logs: %w", err)
	}
	return count, nil
}
