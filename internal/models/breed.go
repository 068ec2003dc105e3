package models

import (
	"strings"
	"time"
)

// Species values
const (
	SpeciesDog = "dog"
	SpeciesCat = "cat"
)

// CareRequirements describes the day-to-day needs of a breed
type CareRequirements struct {
	Exercise string `json:"exercise" bson:"exercise" validate:"required"`
	Grooming string `json:"grooming" bson:"grooming" validate:"required"`
	Training string `json:"training" bson:"training" validate:"required"`
	Space    string `json:"space" bson:"space" validate:"required"`
}

// Breed represents a dog or cat breed profile
type Breed struct {
	ID               string           `json:"id" bson:"id"`
	Name             string           `json:"name" bson:"name"`
	Species          string           `json:"species" bson:"species"`
	Size             string           `json:"size" bson:"size"`
	Weight           string           `json:"weight" bson:"weight"`
	Lifespan         string           `json:"lifespan" bson:"lifespan"`
	Temperament      []string         `json:"temperament" bson:"temperament"`
	Origin           string           `json:"origin" bson:"origin"`
	History          string           `json:"history" bson:"history"`
	CareRequirements CareRequirements `json:"careRequirements" bson:"careRequirements"`
	HealthInfo       string           `json:"healthInfo" bson:"healthInfo"`
	IdealFor         string           `json:"idealFor" bson:"idealFor"`
	ImageURL         *string          `json:"image_url" bson:"image_url"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" bson:"updated_at"`
}

// BreedCreate is the request body for creating a breed
type BreedCreate struct {
	Name             string           `json:"name" validate:"required"`
	Species          string           `json:"species" validate:"required,species"`
	Size             string           `json:"size" validate:"required"`
	Weight           string           `json:"weight" validate:"required"`
	Lifespan         string           `json:"lifespan" validate:"required"`
	Temperament      []string         `json:"temperament" validate:"required"`
	Origin           string           `json:"origin" validate:"required"`
	History          string           `json:"history" validate:"required"`
	CareRequirements CareRequirements `json:"careRequirements"`
	HealthInfo       string           `json:"healthInfo" validate:"required"`
	IdealFor         string           `json:"idealFor" validate:"required"`
	ImageURL         *string          `json:"image_url"`
}

// BreedPatch is the request body for updating a breed. Renaming a breed
// never changes its id.
type BreedPatch struct {
	Name             Optional[string]           `json:"name"`
	Species          Optional[string]           `json:"species" validate:"omitempty,species"`
	Size             Optional[string]           `json:"size"`
	Weight           Optional[string]           `json:"weight"`
	Lifespan         Optional[string]           `json:"lifespan"`
	Temperament      Optional[[]string]         `json:"temperament"`
	Origin           Optional[string]           `json:"origin"`
	History          Optional[string]           `json:"history"`
	CareRequirements Optional[CareRequirements] `json:"careRequirements"`
	HealthInfo       Optional[string]           `json:"healthInfo"`
	IdealFor         Optional[string]           `json:"idealFor"`
	ImageURL         Optional[string]           `json:"image_url"`
}

// Changes lists the fields carried by the patch
func (p *BreedPatch) Changes() []Change {
	var changes []Change
	changes = appendChange(changes, "name", p.Name)
	changes = appendChange(changes, "species", p.Species)
	changes = appendChange(changes, "size", p.Size)
	changes = appendChange(changes, "weight", p.Weight)
	changes = appendChange(changes, "lifespan", p.Lifespan)
	changes = appendChange(changes, "temperament", p.Temperament)
	changes = appendChange(changes, "origin", p.Origin)
	changes = appendChange(changes, "history", p.History)
	changes = appendChange(changes, "careRequirements", p.CareRequirements)
	changes = appendChange(changes, "healthInfo", p.HealthInfo)
	changes = appendChange(changes, "idealFor", p.IdealFor)
	changes = appendChange(changes, "image_url", p.ImageURL)
	return changes
}

// BreedFilter narrows a breed listing. Empty fields do not filter.
type BreedFilter struct {
	Species string
	Letter  string
	Search  string
}

// BreedList is the response of the breed listing
type BreedList struct {
	Breeds     []*Breed   `json:"breeds"`
	Pagination Pagination `json:"pagination"`
}

// BreedSlug derives a breed id from its name: lowercase, spaces to hyphens.
func BreedSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
