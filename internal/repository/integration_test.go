package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/rs/zerolog"
)

// migrationsPath returns the absolute path of the SQL migrations directory.
func migrationsPath(t testing.TB) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
	return filepath.Join(projectRoot, "migrations")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// postgresConfig reads the test database settings from the environment.
// Skips when DB_HOST is unset.
func postgresConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skipf("DB_HOST not set, skipping PostgreSQL integration tests")
	}
	return &config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         os.Getenv("DB_HOST"),
		Port:         envOr("DB_PORT", "5432"),
		User:         envOr("DB_USER", "postgres"),
		Password:     envOr("DB_PASSWORD", "postgres"),
		Name:         envOr("DB_NAME", "petslib_test"),
		SSLMode:      envOr("DB_SSLMODE", "disable"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		MaxLifetime:  time.Minute,
	}
}

// openPostgres connects to the database named by DB_HOST/DB_NAME, migrates
// it and empties every table.
func openPostgres(t *testing.T) *repository.Repositories {
	t.Helper()
	cfg := postgresConfig(t)
	backend, err := repository.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	ctx := context.Background()
	if err := backend.Prepare(ctx, migrationsPath(t)); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	_, err = backend.Postgres.ExecContext(ctx, `TRUNCATE users, articles, breeds,
		article_ratings, page_views, seo_settings, page_meta`)
	if err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	return backend.Repositories
}

// openMongo connects to MONGO_URL using a throwaway database that is
// dropped afterwards. Skips when MONGO_URL is unset.
func openMongo(t *testing.T) *repository.Repositories {
	t.Helper()
	if os.Getenv("MONGO_URL") == "" {
		t.Skipf("MONGO_URL not set, skipping MongoDB integration tests")
	}

	cfg := &config.DatabaseConfig{
		Driver:       config.DriverMongo,
		MongoURL:     os.Getenv("MONGO_URL"),
		Name:         "petslib_test_" + uuid.NewString()[:8],
		MaxOpenConns: 5,
	}
	backend, err := repository.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		backend.Mongo.DB.Drop(context.Background())
		backend.Close()
	})

	if err := backend.Prepare(context.Background(), ""); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	return backend.Repositories
}

func TestPostgresSchemaVersion(t *testing.T) {
	cfg := postgresConfig(t)
	backend, err := repository.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer backend.Close()

	if err := backend.Prepare(context.Background(), migrationsPath(t)); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	version, dirty, err := backend.Postgres.Version(migrationsPath(t))
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected clean schema at version 1, got %d (dirty %t)", version, dirty)
	}
}

func TestPostgresRepositories(t *testing.T) {
	runRepositoryTests(t, openPostgres(t))
}

func TestMongoRepositories(t *testing.T) {
	runRepositoryTests(t, openMongo(t))
}

func runRepositoryTests(t *testing.T, repos *repository.Repositories) {
	t.Run("RatingAverage", func(t *testing.T) { testRatingAverage(t, repos) })
	t.Run("PageViews", func(t *testing.T) { testPageViews(t, repos) })
	t.Run("BreedRenameAndFilters", func(t *testing.T) { testBreedRenameAndFilters(t, repos) })
	t.Run("DeleteMissing", func(t *testing.T) { testDeleteMissing(t, repos) })
	t.Run("SettingsMerge", func(t *testing.T) { testSettingsMerge(t, repos) })
	t.Run("PageMeta", func(t *testing.T) { testPageMeta(t, repos) })
}

func newArticle(id, category, date string) *models.Article {
	return &models.Article{
		ID:        id,
		Title:     "Article " + id,
		Category:  category,
		Excerpt:   "Excerpt " + id,
		Content:   "<p>Content " + id + "</p>",
		Author:    "Author",
		Date:      date,
		ReadTime:  "5 min read",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func newBreed(name, species string, temperament ...string) *models.Breed {
	return &models.Breed{
		ID:          models.BreedSlug(name),
		Name:        name,
		Species:     species,
		Size:        "Medium",
		Weight:      "10-20 lbs",
		Lifespan:    "12-15 years",
		Temperament: temperament,
		Origin:      "England",
		History:     "<p>History of " + name + "</p>",
		CareRequirements: models.CareRequirements{
			Exercise: "Moderate",
			Grooming: "Low",
			Training: "Easy",
			Space:    "Apartment",
		},
		HealthInfo: "Generally healthy",
		IdealFor:   "Families",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func testRatingAverage(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	articleID := "rated-" + uuid.NewString()

	var last *models.ArticleRating
	for _, score := range []int{5, 4, 4} {
		r, err := repos.Rating.Accumulate(ctx, articleID, score, time.Now())
		if err != nil {
			t.Fatalf("Accumulate failed: %v", err)
		}
		last = r
	}

	if last.TotalRatings != 3 || last.TotalScore != 13 {
		t.Errorf("Expected 3 ratings totalling 13, got %d / %d", last.TotalRatings, last.TotalScore)
	}
	if last.AverageRating != 4.33 {
		t.Errorf("Expected average 4.33, got %v", last.AverageRating)
	}

	stored, err := repos.Rating.Get(ctx, articleID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored == nil || stored.AverageRating != 4.33 {
		t.Errorf("Expected stored average 4.33, got %+v", stored)
	}

	missing, err := repos.Rating.Get(ctx, "never-rated")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unrated article, got %+v", missing)
	}
}

func testPageViews(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	pageID := "viewed-" + uuid.NewString()

	if _, err := repos.PageView.Increment(ctx, models.PageTypeArticle, pageID, time.Now()); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	pv, err := repos.PageView.Increment(ctx, models.PageTypeArticle, pageID, time.Now())
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if pv.Views != 2 {
		t.Errorf("Expected 2 views, got %d", pv.Views)
	}

	other, err := repos.PageView.Increment(ctx, models.PageTypeBreed, pageID, time.Now())
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if other.Views != 1 {
		t.Errorf("Expected breed counter to start at 1, got %d", other.Views)
	}

	top, err := repos.PageView.Top(ctx, models.PageTypeArticle, 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if len(top) == 0 || top[0].PageID != pageID {
		t.Errorf("Expected %s at the top, got %+v", pageID, top)
	}

	totals, err := repos.PageView.TotalsByType(ctx)
	if err != nil {
		t.Fatalf("TotalsByType failed: %v", err)
	}
	if totals[models.PageTypeArticle] < 2 || totals[models.PageTypeBreed] < 1 {
		t.Errorf("Unexpected totals: %v", totals)
	}
}

func testBreedRenameAndFilters(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	if err := repos.Breed.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	golden := newBreed("Golden Retriever", "dog", "Friendly", "Intelligent")
	persian := newBreed("Persian", "cat", "Quiet", "Gentle")
	if _, err := repos.Breed.BatchInsert(ctx, []*models.Breed{golden, persian}); err != nil {
		t.Fatalf("BatchInsert failed: %v", err)
	}

	err := repos.Breed.Create(ctx, newBreed("Golden Retriever", "dog", "Loyal"))
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for repeated slug, got %v", err)
	}

	updated, err := repos.Breed.Update(ctx, golden.ID,
		[]models.Change{{Field: "name", Value: "Golden"}}, time.Now())
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated == nil || updated.ID != "golden-retriever" || updated.Name != "Golden" {
		t.Fatalf("Expected rename to keep id golden-retriever, got %+v", updated)
	}
	if updated.CareRequirements.Exercise != "Moderate" || len(updated.Temperament) != 2 {
		t.Errorf("Expected untouched fields to survive, got %+v", updated)
	}

	page := models.PageRequest{Page: 1, Limit: 12}
	tests := []struct {
		name   string
		filter models.BreedFilter
		want   []string
	}{
		{name: "all", filter: models.BreedFilter{}, want: []string{"golden-retriever", "persian"}},
		{name: "species", filter: models.BreedFilter{Species: "cat"}, want: []string{"persian"}},
		{name: "letter", filter: models.BreedFilter{Letter: "g"}, want: []string{"golden-retriever"}},
		{name: "temperament search", filter: models.BreedFilter{Search: "FRIEND"}, want: []string{"golden-retriever"}},
		{name: "name search", filter: models.BreedFilter{Search: "ersi"}, want: []string{"persian"}},
		{name: "no match", filter: models.BreedFilter{Search: "zzz"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breeds, total, err := repos.Breed.List(ctx, tt.filter, page)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if total != len(tt.want) || len(breeds) != len(tt.want) {
				t.Fatalf("Expected %d breeds, got %d (total %d)", len(tt.want), len(breeds), total)
			}
			for i, id := range tt.want {
				if breeds[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, breeds[i].ID)
				}
			}
		})
	}
}

func testDeleteMissing(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()

	removed, err := repos.Article.Delete(ctx, "missing-"+uuid.NewString())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed {
		t.Error("Expected false when deleting a missing article")
	}

	removed, err = repos.Breed.Delete(ctx, "missing-breed")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed {
		t.Error("Expected false when deleting a missing breed")
	}

	a := newArticle(uuid.NewString(), "care", "2025-01-15")
	if err := repos.Article.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	removed, err = repos.Article.Delete(ctx, a.ID)
	if err != nil || !removed {
		t.Fatalf("Expected article to be deleted, got %v, %v", removed, err)
	}
	got, err := repos.Article.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil after delete, got %+v", got)
	}
}

func testSettingsMerge(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()

	if _, err := repos.SEO.UpdateSettings(ctx,
		[]models.Change{{Field: "home_title", Value: "Pets Home"}}, time.Now()); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	merged, err := repos.SEO.UpdateSettings(ctx,
		[]models.Change{{Field: "default_author", Value: "Editorial"}}, time.Now())
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if merged.HomeTitle != "Pets Home" || merged.DefaultAuthor != "Editorial" {
		t.Errorf("Expected both updates merged, got %q / %q", merged.HomeTitle, merged.DefaultAuthor)
	}

	stored, err := repos.SEO.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	defaults := models.DefaultSEOSettings()
	if stored == nil || stored.HomeTitle != "Pets Home" || stored.NutritionTitle != defaults.NutritionTitle {
		t.Errorf("Expected stored settings over defaults, got %+v", stored)
	}
}

func testPageMeta(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	title := "Custom title"
	meta := &models.PageMeta{
		ID:          uuid.NewString(),
		PageType:    models.PageTypeArticle,
		PageID:      "meta-" + uuid.NewString(),
		CustomTitle: &title,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := repos.SEO.CreatePageMeta(ctx, meta); err != nil {
		t.Fatalf("CreatePageMeta failed: %v", err)
	}

	dup := *meta
	dup.ID = uuid.NewString()
	if err := repos.SEO.CreatePageMeta(ctx, &dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for repeated page, got %v", err)
	}

	updated, err := repos.SEO.UpdatePageMeta(ctx, meta.PageType, meta.PageID,
		[]models.Change{{Field: "custom_description", Value: "Custom description"}}, time.Now())
	if err != nil {
		t.Fatalf("UpdatePageMeta failed: %v", err)
	}
	if updated == nil || updated.CustomTitle == nil || *updated.CustomTitle != title {
		t.Fatalf("Expected title kept after partial update, got %+v", updated)
	}
	if updated.CustomDescription == nil || *updated.CustomDescription != "Custom description" {
		t.Errorf("Expected description set, got %+v", updated.CustomDescription)
	}

	missing, err := repos.SEO.UpdatePageMeta(ctx, models.PageTypeBreed, "nope",
		[]models.Change{{Field: "custom_title", Value: "x"}}, time.Now())
	if err != nil {
		t.Fatalf("UpdatePageMeta failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing page meta, got %+v", missing)
	}
}
