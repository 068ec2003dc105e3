package database

import (
	"context"
	"fmt"
	"time"

	"github.com/petslib-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the MongoDB repositories
const (
	CollArticles    = "articles"
	CollBreeds      = "breeds"
	CollUsers       = "users"
	CollRatings     = "article_ratings"
	CollPageViews   = "page_views"
	CollSEOSettings = "seo_settings"
	CollPageMeta    = "page_meta"
)

// Mongo wraps a MongoDB client and the application database
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    zerolog.Logger
}

// NewMongo connects to MongoDB and verifies the connection
func NewMongo(cfg *config.DatabaseConfig, log zerolog.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURL).
		SetMaxPoolSize(uint64(cfg.MaxOpenConns))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m := &Mongo{
		Client: client,
		DB:     client.Database(cfg.Name),
		log:    log.With().Str("component", "database").Logger(),
	}

	m.log.Info().
		Str("database", cfg.Name).
		Msg("MongoDB connection established")

	return m, nil
}

// Close disconnects the client
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the primary is reachable
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// indexModels lists the indexes per collection. Search runs as
// case-insensitive regex over name/title, so there are no text indexes.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CollArticles: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("articles_id_unique")},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "date", Value: -1}}, Options: options.Index().SetName("articles_category_date_index")},
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetName("articles_title_index")},
		},
		CollBreeds: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("breeds_id_unique")},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("breeds_name_index")},
			{Keys: bson.D{{Key: "species", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("breeds_species_name_index")},
		},
		CollUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_unique")},
		},
		CollRatings: {
			{Keys: bson.D{{Key: "article_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("ratings_article_unique")},
		},
		CollPageViews: {
			{Keys: bson.D{{Key: "page_type", Value: 1}, {Key: "page_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("page_views_page_unique")},
			{Keys: bson.D{{Key: "page_type", Value: 1}, {Key: "views", Value: -1}}, Options: options.Index().SetName("page_views_popular_index")},
		},
		CollPageMeta: {
			{Keys: bson.D{{Key: "page_type", Value: 1}, {Key: "page_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("page_meta_page_unique")},
		},
	}
}

// EnsureIndexes creates the lookup and uniqueness indexes. Creating an
// index that already exists is a no-op.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := indexModels()

	for coll, models := range indexes {
		names, err := m.DB.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
		m.log.Info().Str("collection", coll).Strs("indexes", names).Msg("Indexes ensured")
	}
	return nil
}
