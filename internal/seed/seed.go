// Package seed loads the bundled demo content into an empty or existing
// database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/auth"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var fixtureYAML []byte

// Fixture is the demo content bundled with the binary
type Fixture struct {
	Admin    AdminFixture     `yaml:"admin"`
	Articles []ArticleFixture `yaml:"articles"`
	Breeds   []BreedFixture   `yaml:"breeds"`
}

// AdminFixture is the account created by the seed
type AdminFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// ArticleFixture is one seeded article
type ArticleFixture struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Excerpt  string `yaml:"excerpt"`
	Content  string `yaml:"content"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
	ReadTime string `yaml:"read_time"`
}

// BreedFixture is one seeded breed; its ID is derived from the name
type BreedFixture struct {
	Name             string   `yaml:"name"`
	Species          string   `yaml:"species"`
	Size             string   `yaml:"size"`
	Weight           string   `yaml:"weight"`
	Lifespan         string   `yaml:"lifespan"`
	Temperament      []string `yaml:"temperament"`
	Origin           string   `yaml:"origin"`
	History          string   `yaml:"history"`
	CareRequirements struct {
		Exercise string `yaml:"exercise"`
		Grooming string `yaml:"grooming"`
		Training string `yaml:"training"`
		Space    string `yaml:"space"`
	} `yaml:"care_requirements"`
	HealthInfo string `yaml:"health_info"`
	IdealFor   string `yaml:"ideal_for"`
}

// Load parses the bundled fixture
func Load() (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(fixtureYAML, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	return &f, nil
}

// Result summarises a seed run
type Result struct {
	Articles   int
	Breeds     int
	AdminEmail string
}

// Seeder replaces articles, breeds and users with the fixture content
type Seeder struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(repos *repository.Repositories, log zerolog.Logger) *Seeder {
	return &Seeder{
		repos: repos,
		log:   log.With().Str("component", "seed").Logger(),
	}
}

// Run clears the content collections and inserts the fixture
func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Result, error) {
	if err := s.repos.Article.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear articles: %w", err)
	}
	if err := s.repos.Breed.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear breeds: %w", err)
	}
	if err := s.repos.User.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear users: %w", err)
	}
	s.log.Info().Msg("Cleared existing content")

	now := time.Now().UTC()

	articles := make([]*models.Article, len(f.Articles))
	for i, a := range f.Articles {
		articles[i] = &models.Article{
			ID:        a.ID,
			Title:     a.Title,
			Category:  a.Category,
			Excerpt:   a.Excerpt,
			Content:   a.Content,
			Author:    a.Author,
			Date:      a.Date,
			ReadTime:  a.ReadTime,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	nArticles, err := s.repos.Article.BatchInsert(ctx, articles)
	if err != nil {
		return nil, fmt.Errorf("insert articles: %w", err)
	}

	breeds := make([]*models.Breed, len(f.Breeds))
	for i, b := range f.Breeds {
		breeds[i] = &models.Breed{
			ID:          models.BreedSlug(b.Name),
			Name:        b.Name,
			Species:     b.Species,
			Size:        b.Size,
			Weight:      b.Weight,
			Lifespan:    b.Lifespan,
			Temperament: b.Temperament,
			Origin:      b.Origin,
			History:     b.History,
			CareRequirements: models.CareRequirements{
				Exercise: b.CareRequirements.Exercise,
				Grooming: b.CareRequirements.Grooming,
				Training: b.CareRequirements.Training,
				Space:    b.CareRequirements.Space,
			},
			HealthInfo: b.HealthInfo,
			IdealFor:   b.IdealFor,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	nBreeds, err := s.repos.Breed.BatchInsert(ctx, breeds)
	if err != nil {
		return nil, fmt.Errorf("insert breeds: %w", err)
	}

	hash, err := auth.HashPassword(f.Admin.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		ID:             uuid.New().String(),
		Email:          f.Admin.Email,
		HashedPassword: hash,
		FullName:       f.Admin.FullName,
		IsAdmin:        true,
		CreatedAt:      now,
	}
	if err := s.repos.User.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.log.Info().
		Int("articles", nArticles).
		Int("breeds", nBreeds).
		Str("admin", admin.Email).
		Msg("Seed complete")

	return &Result{Articles: nArticles, Breeds: nBreeds, AdminEmail: admin.Email}, nil
}
