package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/rs/zerolog"
)

// breedService is the concrete implementation of BreedService
type breedService struct {
	breeds repository.BreedRepository
	log    zerolog.Logger
}

func newBreedService(breeds repository.BreedRepository, log zerolog.Logger) *breedService {
	return &breedService{
		breeds: breeds,
		log:    log.With().Str("service", "breed").Logger(),
	}
}

// List returns one page of breeds sorted by name. "all" or an empty value
// disables the species and letter filters.
func (s *breedService) List(ctx context.Context, filter models.BreedFilter, page models.PageRequest) (*models.BreedList, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}

	if strings.EqualFold(filter.Species, CategoryAll) {
		filter.Species = ""
	}
	filter.Species = strings.ToLower(filter.Species)
	if strings.EqualFold(filter.Letter, CategoryAll) {
		filter.Letter = ""
	}
	filter.Search = strings.TrimSpace(filter.Search)

	breeds, total, err := s.breeds.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list breeds: %w", err)
	}

	return &models.BreedList{
		Breeds:     breeds,
		Pagination: models.NewPagination(page, total),
	}, nil
}

// Get returns a breed by ID
func (s *breedService) Get(ctx context.Context, id string) (*models.Breed, error) {
	breed, err := s.breeds.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get breed: %w", err)
	}
	if breed == nil {
		return nil, notFound("Breed")
	}
	return breed, nil
}

// Create stores a new breed whose ID is the slug of its name
func (s *breedService) Create(ctx context.Context, req *models.BreedCreate) (*models.Breed, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id := models.BreedSlug(req.Name)
	if id == "" {
		return nil, validationError("name is required")
	}

	existing, err := s.breeds.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check breed: %w", err)
	}
	if existing != nil {
		return nil, conflict("Breed with this name already exists")
	}

	ts := now()
	breed := &models.Breed{
		ID:               id,
		Name:             req.Name,
		Species:          req.Species,
		Size:             req.Size,
		Weight:           req.Weight,
		Lifespan:         req.Lifespan,
		Temperament:      req.Temperament,
		Origin:           req.Origin,
		History:          sanitizeRichText(req.History),
		CareRequirements: req.CareRequirements,
		HealthInfo:       sanitizeRichText(req.HealthInfo),
		IdealFor:         req.IdealFor,
		ImageURL:         req.ImageURL,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}

	if err := s.breeds.Create(ctx, breed); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Breed with this name already exists")
		}
		return nil, fmt.Errorf("create breed: %w", err)
	}

	s.log.Info().
		Str("breed_id", breed.ID).
		Str("species", breed.Species).
		Msg("Breed created")

	return breed, nil
}

// Update writes the fields present in the patch. The ID stays the same
// when the name changes so existing links keep working.
func (s *breedService) Update(ctx context.Context, id string, patch *models.BreedPatch) (*models.Breed, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	if patch.History.Set {
		patch.History.Value = sanitizeRichText(patch.History.Value)
	}
	if patch.HealthInfo.Set {
		patch.HealthInfo.Value = sanitizeRichText(patch.HealthInfo.Value)
	}

	changes := patch.Changes()
	if len(changes) == 0 {
		return s.Get(ctx, id)
	}

	breed, err := s.breeds.Update(ctx, id, changes, now())
	if err != nil {
		return nil, fmt.Errorf("update breed: %w", err)
	}
	if breed == nil {
		return nil, notFound("Breed")
	}

	s.log.Info().
		Str("breed_id", id).
		Int("fields", len(changes)).
		Msg("Breed updated")

	return breed, nil
}

// Delete removes a breed
func (s *breedService) Delete(ctx context.Context, id string) error {
	removed, err := s.breeds.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete breed: %w", err)
	}
	if !removed {
		return notFound("Breed")
	}

	s.log.Info().Str("breed_id", id).Msg("Breed deleted")
	return nil
}
