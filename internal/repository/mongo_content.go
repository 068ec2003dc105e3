package repository

import (
	"context"
	"time"

	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoArticleRepo implements ArticleRepository over the articles collection
type mongoArticleRepo struct {
	coll *mongo.Collection
}

// NewMongoArticleRepo creates a MongoDB article repository
func NewMongoArticleRepo(db *mongo.Database) ArticleRepository {
	return &mongoArticleRepo{coll: db.Collection(database.CollArticles)}
}

func (r *mongoArticleRepo) Create(ctx context.Context, article *models.Article) error {
	_, err := r.coll.InsertOne(ctx, article)
	return translateErr(err)
}

func (r *mongoArticleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	res, err := r.coll.InsertMany(ctx, toDocuments(articles))
	if err != nil {
		return 0, translateErr(err)
	}
	return len(res.InsertedIDs), nil
}

func (r *mongoArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return findOne[models.Article](ctx, r.coll, bson.M{"id": id})
}

func (r *mongoArticleRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Article, error) {
	if len(ids) == 0 {
		return []*models.Article{}, nil
	}
	return findAll[models.Article](ctx, r.coll, bson.M{"id": bson.M{"$in": ids}})
}

func (r *mongoArticleRepo) List(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) ([]*models.Article, int, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	articles, err := findAll[models.Article](ctx, r.coll, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return articles, int(total), nil
}

func (r *mongoArticleRepo) ListAll(ctx context.Context) ([]*models.Article, error) {
	return findAll[models.Article](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
}

func (r *mongoArticleRepo) Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Article, error) {
	return updateOne[models.Article](ctx, r.coll, bson.M{"id": id}, bson.M{"$set": setDocument(changes, now)}, false)
}

func (r *mongoArticleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoArticleRepo) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (r *mongoArticleRepo) Search(ctx context.Context, q string, limit int) ([]*models.Article, error) {
	re := containsRegex(q)
	filter := bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"excerpt": re},
		bson.M{"content": re},
		bson.M{"category": re},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))
	return findAll[models.Article](ctx, r.coll, filter, opts)
}

func (r *mongoArticleRepo) TitlesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	return distinctStrings(ctx, r.coll, "title", bson.M{"title": prefixRegex(prefix)}, limit)
}

// mongoBreedRepo implements BreedRepository over the breeds collection
type mongoBreedRepo struct {
	coll *mongo.Collection
}

// NewMongoBreedRepo creates a MongoDB breed repository
func NewMongoBreedRepo(db *mongo.Database) BreedRepository {
	return &mongoBreedRepo{coll: db.Collection(database.CollBreeds)}
}

func (r *mongoBreedRepo) Create(ctx context.Context, breed *models.Breed) error {
	_, err := r.coll.InsertOne(ctx, breed)
	return translateErr(err)
}

func (r *mongoBreedRepo) BatchInsert(ctx context.Context, breeds []*models.Breed) (int, error) {
	if len(breeds) == 0 {
		return 0, nil
	}
	res, err := r.coll.InsertMany(ctx, toDocuments(breeds))
	if err != nil {
		return 0, translateErr(err)
	}
	return len(res.InsertedIDs), nil
}

func (r *mongoBreedRepo) GetByID(ctx context.Context, id string) (*models.Breed, error) {
	return findOne[models.Breed](ctx, r.coll, bson.M{"id": id})
}

func (r *mongoBreedRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Breed, error) {
	if len(ids) == 0 {
		return []*models.Breed{}, nil
	}
	return findAll[models.Breed](ctx, r.coll, bson.M{"id": bson.M{"$in": ids}})
}

func (r *mongoBreedRepo) List(ctx context.Context, filter models.BreedFilter, page models.PageRequest) ([]*models.Breed, int, error) {
	var conds bson.A
	if filter.Species != "" {
		conds = append(conds, bson.M{"species": filter.Species})
	}
	if filter.Letter != "" {
		conds = append(conds, bson.M{"name": prefixRegex(filter.Letter)})
	}
	if filter.Search != "" {
		re := containsRegex(filter.Search)
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"name": re},
			bson.M{"temperament": re},
		}})
	}

	query := bson.M{}
	if len(conds) > 0 {
		query["$and"] = conds
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	breeds, err := findAll[models.Breed](ctx, r.coll, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return breeds, int(total), nil
}

func (r *mongoBreedRepo) ListAll(ctx context.Context) ([]*models.Breed, error) {
	return findAll[models.Breed](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *mongoBreedRepo) Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Breed, error) {
	return updateOne[models.Breed](ctx, r.coll, bson.M{"id": id}, bson.M{"$set": setDocument(changes, now)}, false)
}

func (r *mongoBreedRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoBreedRepo) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (r *mongoBreedRepo) Search(ctx context.Context, q string, limit int) ([]*models.Breed, error) {
	re := containsRegex(q)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"temperament": re},
		bson.M{"origin": re},
		bson.M{"idealFor": re},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit))
	return findAll[models.Breed](ctx, r.coll, filter, opts)
}

func (r *mongoBreedRepo) NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	return distinctStrings(ctx, r.coll, "name", bson.M{"name": prefixRegex(prefix)}, limit)
}
