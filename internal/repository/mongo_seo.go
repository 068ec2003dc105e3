package repository

import (
	"context"
	"errors"
	"time"

	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoSEORepo implements SEORepository over seo_settings and page_meta
type mongoSEORepo struct {
	settings *mongo.Collection
	meta     *mongo.Collection
}

// NewMongoSEORepo creates a MongoDB SEO repository
func NewMongoSEORepo(db *mongo.Database) SEORepository {
	return &mongoSEORepo{
		settings: db.Collection(database.CollSEOSettings),
		meta:     db.Collection(database.CollPageMeta),
	}
}

// decodeOntoDefaults fills the defaults with whatever keys the stored
// document carries
func decodeOntoDefaults(res *mongo.SingleResult) (*models.SEOSettings, error) {
	settings := models.DefaultSEOSettings()
	err := res.Decode(settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *mongoSEORepo) GetSettings(ctx context.Context) (*models.SEOSettings, error) {
	return decodeOntoDefaults(r.settings.FindOne(ctx, bson.M{"id": models.SEOSettingsID}))
}

func (r *mongoSEORepo) UpdateSettings(ctx context.Context, changes []models.Change, now time.Time) (*models.SEOSettings, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(true)
	res := r.settings.FindOneAndUpdate(ctx,
		bson.M{"id": models.SEOSettingsID},
		bson.M{"$set": setDocument(changes, now)},
		opts,
	)
	return decodeOntoDefaults(res)
}

func (r *mongoSEORepo) GetPageMeta(ctx context.Context, pageType, pageID string) (*models.PageMeta, error) {
	return findOne[models.PageMeta](ctx, r.meta, bson.M{"page_type": pageType, "page_id": pageID})
}

func (r *mongoSEORepo) CreatePageMeta(ctx context.Context, meta *models.PageMeta) error {
	_, err := r.meta.InsertOne(ctx, meta)
	return translateErr(err)
}

func (r *mongoSEORepo) UpdatePageMeta(ctx context.Context, pageType, pageID string, changes []models.Change, now time.Time) (*models.PageMeta, error) {
	filter := bson.M{"page_type": pageType, "page_id": pageID}
	return updateOne[models.PageMeta](ctx, r.meta, filter, bson.M{"$set": setDocument(changes, now)}, false)
}
