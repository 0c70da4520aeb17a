package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reservationserrors "roombook/internal/reservations/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id string) (*model.Member, error)
}

type mongoMemberRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMemberRepository(cfg *config.Config) MemberRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMemberRepository{
		cfg:        cfg,
		collection: db.Collection(MembersCollection),
	}
}

func (r *mongoMemberRepository) Create(ctx context.Context, member *model.Member) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	member.ID = insertedHex(result)
	return nil
}

func (r *mongoMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var member model.Member
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return &member, nil
}
