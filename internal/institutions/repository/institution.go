package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	institutionerrors "lineup/internal/institutions/errors"
	"lineup/pkg/config"
	"lineup/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Institutions"
)

type InstitutionRepository interface {
	FindByID(ctx context.Context, id string) (*model.Institution, error)
	// FindActive returns active institutions, optionally narrowed by type
	// and by an already regex-escaped city pattern.
	FindActive(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error)
}

type mongoInstitutionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInstitutionRepository(cfg *config.Config) InstitutionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInstitutionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoInstitutionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoInstitutionRepository) FindByID(ctx context.Context, id string) (*model.Institution, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", institutionerrors.ErrInvalidID, id)
	}

	var institution model.Institution
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&institution)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, institutionerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find institution: %w", err)
	}

	return &institution, nil
}

func (r *mongoInstitutionRepository) FindActive(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"is_active": true}
	if institutionType != "" {
		filter["institution_type"] = institutionType
	}
	if cityPattern != "" {
		filter["city"] = bson.M{"$regex": cityPattern, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find institutions: %w", err)
	}
	defer cursor.Close(ctx)

	var institutions []*model.Institution
	if err = cursor.All(ctx, &institutions); err != nil {
		return nil, fmt.Errorf("failed to decode institutions: %w", err)
	}

	return institutions, nil
}
