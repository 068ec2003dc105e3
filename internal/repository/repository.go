package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicate is returned when an insert collides with an existing key
var ErrDuplicate = errors.New("duplicate key")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DeleteAll(ctx context.Context) error
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	BatchInsert(ctx context.Context, articles []*models.Article) (int, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) ([]*models.Article, int, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
	Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Article, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, limit int) ([]*models.Article, error)
	TitlesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

// BreedRepository defines the interface for breed data operations
type BreedRepository interface {
	Create(ctx context.Context, breed *models.Breed) error
	BatchInsert(ctx context.Context, breeds []*models.Breed) (int, error)
	GetByID(ctx context.Context, id string) (*models.Breed, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Breed, error)
	List(ctx context.Context, filter models.BreedFilter, page models.PageRequest) ([]*models.Breed, int, error)
	ListAll(ctx context.Context) ([]*models.Breed, error)
	Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Breed, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, limit int) ([]*models.Breed, error)
	NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

// RatingRepository defines the interface for article rating operations
type RatingRepository interface {
	Get(ctx context.Context, articleID string) (*models.ArticleRating, error)
	// Accumulate adds one rating and recomputes the average in a single
	// atomic statement, creating the record on first use.
	Accumulate(ctx context.Context, articleID string, rating int, now time.Time) (*models.ArticleRating, error)
	Summary(ctx context.Context) (*models.RatingSummary, error)
}

// PageViewRepository defines the interface for page view counters
type PageViewRepository interface {
	Increment(ctx context.Context, pageType, pageID string, now time.Time) (*models.PageView, error)
	Top(ctx context.Context, pageType string, limit int) ([]*models.PageView, error)
	TotalsByType(ctx context.Context) (map[string]int64, error)
}

// SEORepository defines the interface for the SEO settings singleton and
// per-page overrides
type SEORepository interface {
	GetSettings(ctx context.Context) (*models.SEOSettings, error)
	UpdateSettings(ctx context.Context, changes []models.Change, now time.Time) (*models.SEOSettings, error)
	GetPageMeta(ctx context.Context, pageType, pageID string) (*models.PageMeta, error)
	CreatePageMeta(ctx context.Context, meta *models.PageMeta) error
	UpdatePageMeta(ctx context.Context, pageType, pageID string, changes []models.Change, now time.Time) (*models.PageMeta, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Article  ArticleRepository
	Breed    BreedRepository
	Rating   RatingRepository
	PageView PageViewRepository
	SEO      SEORepository
}

// NewPostgres creates all repositories backed by PostgreSQL
func NewPostgres(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Article:  NewArticleRepo(db),
		Breed:    NewBreedRepo(db),
		Rating:   NewRatingRepo(db),
		PageView: NewPageViewRepo(db),
		SEO:      NewSEORepo(db),
	}
}

// NewMongo creates all repositories backed by MongoDB
func NewMongo(m *database.Mongo) *Repositories {
	return &Repositories{
		User:     NewMongoUserRepo(m.DB),
		Article:  NewMongoArticleRepo(m.DB),
		Breed:    NewMongoBreedRepo(m.DB),
		Rating:   NewMongoRatingRepo(m.DB),
		PageView: NewMongoPageViewRepo(m.DB),
		SEO:      NewMongoSEORepo(m.DB),
	}
}

// translateErr maps driver-specific unique violations to ErrDuplicate
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere, with LIKE
// wildcards in s taken literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// prefixPattern returns an ILIKE pattern matching values starting with s
func prefixPattern(s string) string {
	return likeEscaper.Replace(s) + "%"
}
