package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRatingRepo implements RatingRepository over article_ratings
type mongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo creates a MongoDB rating repository
func NewMongoRatingRepo(db *mongo.Database) RatingRepository {
	return &mongoRatingRepo{coll: db.Collection(database.CollRatings)}
}

func (r *mongoRatingRepo) Get(ctx context.Context, articleID string) (*models.ArticleRating, error) {
	return findOne[models.ArticleRating](ctx, r.coll, bson.M{"article_id": articleID})
}

// Accumulate runs as one pipeline update so the count, score and average
// are computed from the same document state.
func (r *mongoRatingRepo) Accumulate(ctx context.Context, articleID string, rating int, now time.Time) (*models.ArticleRating, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "total_ratings", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$total_ratings", 0}}}, 1,
			}}}},
			{Key: "total_score", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$total_score", 0}}}, rating,
			}}}},
			{Key: "updated_at", Value: now},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "average_rating", Value: bson.D{{Key: "$round", Value: bson.A{
				bson.D{{Key: "$divide", Value: bson.A{"$total_score", "$total_ratings"}}}, 2,
			}}}},
		}}},
	}
	return updateOne[models.ArticleRating](ctx, r.coll, bson.M{"article_id": articleID}, pipeline, true)
}

func (r *mongoRatingRepo) Summary(ctx context.Context) (*models.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_ratings"}}},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$average_rating"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Total int64   `bson:"total"`
		Avg   float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	summary := &models.RatingSummary{}
	if len(rows) > 0 {
		summary.TotalRatings = rows[0].Total
		summary.AverageRating = rows[0].Avg
	}
	return summary, nil
}

// mongoPageViewRepo implements PageViewRepository over page_views
type mongoPageViewRepo struct {
	coll *mongo.Collection
}

// NewMongoPageViewRepo creates a MongoDB page view repository
func NewMongoPageViewRepo(db *mongo.Database) PageViewRepository {
	return &mongoPageViewRepo{coll: db.Collection(database.CollPageViews)}
}

func (r *mongoPageViewRepo) Increment(ctx context.Context, pageType, pageID string, now time.Time) (*models.PageView, error) {
	filter := bson.M{"page_type": pageType, "page_id": pageID}
	update := bson.M{
		"$inc":         bson.M{"views": 1},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"id": uuid.New().String(), "created_at": now},
	}
	return updateOne[models.PageView](ctx, r.coll, filter, update, true)
}

func (r *mongoPageViewRepo) Top(ctx context.Context, pageType string, limit int) ([]*models.PageView, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "page_id", Value: 1}}).
		SetLimit(int64(limit))
	return findAll[models.PageView](ctx, r.coll, bson.M{"page_type": pageType}, opts)
}

func (r *mongoPageViewRepo) TotalsByType(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$page_type"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$views"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		PageType string `bson:"_id"`
		Total    int64  `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.PageType] = row.Total
	}
	return totals, nil
}
