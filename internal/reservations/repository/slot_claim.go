package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reservationserrors "roombook/internal/reservations/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

// SlotClaimRepository stores one document per occupied slot. Claims are only
// meaningful inside the transaction that writes the owning reservation.
type SlotClaimRepository interface {
	Claim(ctx context.Context, claims []*model.SlotClaim) error
	ReleaseByReservation(ctx context.Context, reservationID string) error
}

type mongoSlotClaimRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotClaimRepository(cfg *config.Config) SlotClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotClaimRepository{
		cfg:        cfg,
		collection: db.Collection(SlotClaimsCollection),
	}
}

// Claim returns ErrSlotTaken if any of the slots already has a claim. Write
// conflicts with an uncommitted claim are returned untouched so the
// transaction can be retried.
func (r *mongoSlotClaimRepository) Claim(ctx context.Context, claims []*model.SlotClaim) error {
	if len(claims) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, len(claims))
	for i, claim := range claims {
		docs[i] = claim
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to claim slots: %w", err)
	}
	return nil
}

func (r *mongoSlotClaimRepository) ReleaseByReservation(ctx context.Context, reservationID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"reservation_id": reservationID}); err != nil {
		return fmt.Errorf("failed to release slots: %w", err)
	}
	return nil
}
