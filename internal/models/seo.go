package models

import (
	"strings"
	"time"
)

// SEOSettingsID is the id of the singleton settings document
const SEOSettingsID = "seo_settings"

// SEOSettings holds the title/description templates of every site section.
// Templates use {placeholder} markers filled in by Render.
type SEOSettings struct {
	ID string `json:"id" bson:"id"`

	HomeTitle       string `json:"home_title" bson:"home_title"`
	HomeDescription string `json:"home_description" bson:"home_description"`

	DefaultAuthor string `json:"default_author" bson:"default_author"`

	NutritionTitle       string `json:"nutrition_title" bson:"nutrition_title"`
	NutritionDescription string `json:"nutrition_description" bson:"nutrition_description"`
	TrainingTitle        string `json:"training_title" bson:"training_title"`
	TrainingDescription  string `json:"training_description" bson:"training_description"`
	HealthTitle          string `json:"health_title" bson:"health_title"`
	HealthDescription    string `json:"health_description" bson:"health_description"`
	CareTitle            string `json:"care_title" bson:"care_title"`
	CareDescription      string `json:"care_description" bson:"care_description"`

	PaginationTitleTemplate       string `json:"pagination_title_template" bson:"pagination_title_template"`
	PaginationDescriptionTemplate string `json:"pagination_description_template" bson:"pagination_description_template"`

	ArticleTitleTemplate       string `json:"article_title_template" bson:"article_title_template"`
	ArticleDescriptionTemplate string `json:"article_description_template" bson:"article_description_template"`
	BreedTitleTemplate         string `json:"breed_title_template" bson:"breed_title_template"`
	BreedDescriptionTemplate   string `json:"breed_description_template" bson:"breed_description_template"`

	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultSEOSettings returns the settings served before an admin saves any
func DefaultSEOSettings() *SEOSettings {
	return &SEOSettings{
		ID:              SEOSettingsID,
		HomeTitle:       "PetsLib - Your Complete Guide to Pet Care & Breeds",
		HomeDescription: "Discover expert pet care advice, comprehensive breed information, and everything you need for your furry friends.",
		DefaultAuthor:   "PetsLib Editorial Team",

		NutritionTitle:       "Pet Nutrition Articles | PetsLib",
		NutritionDescription: "Expert nutrition guides for your pets - balanced diets, feeding tips, and nutritional advice.",
		TrainingTitle:        "Pet Training Tips | PetsLib",
		TrainingDescription:  "Effective training techniques and behavioral guidance for dogs and cats.",
		HealthTitle:          "Pet Health Information | PetsLib",
		HealthDescription:    "Comprehensive health guides, preventive care, and wellness tips for your pets.",
		CareTitle:            "Pet Care Guides | PetsLib",
		CareDescription:      "Essential pet care information, grooming tips, and home environment advice.",

		PaginationTitleTemplate:       "{page_title} - Page {page_number} | PetsLib",
		PaginationDescriptionTemplate: "{page_description} Browse page {page_number} of our collection.",

		ArticleTitleTemplate:       "{article_title} | PetsLib",
		ArticleDescriptionTemplate: "{article_excerpt}",
		BreedTitleTemplate:         "{breed_name} - Breed Information | PetsLib",
		BreedDescriptionTemplate:   "Complete guide to {breed_name}: temperament, care requirements, health info, and more.",
	}
}

// CategoryMeta returns the title and description configured for a category
func (s *SEOSettings) CategoryMeta(category string) (title, description string, ok bool) {
	switch strings.ToLower(category) {
	case "nutrition":
		return s.NutritionTitle, s.NutritionDescription, true
	case "training":
		return s.TrainingTitle, s.TrainingDescription, true
	case "health":
		return s.HealthTitle, s.HealthDescription, true
	case "care":
		return s.CareTitle, s.CareDescription, true
	}
	return "", "", false
}

// Render substitutes {key} markers in template with values. Unknown markers
// are left in place.
func Render(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// SEOSettingsPatch is the request body for updating SEO settings
type SEOSettingsPatch struct {
	HomeTitle                     Optional[string] `json:"home_title"`
	HomeDescription               Optional[string] `json:"home_description"`
	DefaultAuthor                 Optional[string] `json:"default_author"`
	NutritionTitle                Optional[string] `json:"nutrition_title"`
	NutritionDescription          Optional[string] `json:"nutrition_description"`
	TrainingTitle                 Optional[string] `json:"training_title"`
	TrainingDescription           Optional[string] `json:"training_description"`
	HealthTitle                   Optional[string] `json:"health_title"`
	HealthDescription             Optional[string] `json:"health_description"`
	CareTitle                     Optional[string] `json:"care_title"`
	CareDescription               Optional[string] `json:"care_description"`
	PaginationTitleTemplate       Optional[string] `json:"pagination_title_template"`
	PaginationDescriptionTemplate Optional[string] `json:"pagination_description_template"`
	ArticleTitleTemplate          Optional[string] `json:"article_title_template"`
	ArticleDescriptionTemplate    Optional[string] `json:"article_description_template"`
	BreedTitleTemplate            Optional[string] `json:"breed_title_template"`
	BreedDescriptionTemplate      Optional[string] `json:"breed_description_template"`
}

// Changes lists the fields carried by the patch
func (p *SEOSettingsPatch) Changes() []Change {
	var changes []Change
	changes = appendChange(changes, "home_title", p.HomeTitle)
	changes = appendChange(changes, "home_description", p.HomeDescription)
	changes = appendChange(changes, "default_author", p.DefaultAuthor)
	changes = appendChange(changes, "nutrition_title", p.NutritionTitle)
	changes = appendChange(changes, "nutrition_description", p.NutritionDescription)
	changes = appendChange(changes, "training_title", p.TrainingTitle)
	changes = appendChange(changes, "training_description", p.TrainingDescription)
	changes = appendChange(changes, "health_title", p.HealthTitle)
	changes = appendChange(changes, "health_description", p.HealthDescription)
	changes = appendChange(changes, "care_title", p.CareTitle)
	changes = appendChange(changes, "care_description", p.CareDescription)
	changes = appendChange(changes, "pagination_title_template", p.PaginationTitleTemplate)
	changes = appendChange(changes, "pagination_description_template", p.PaginationDescriptionTemplate)
	changes = appendChange(changes, "article_title_template", p.ArticleTitleTemplate)
	changes = appendChange(changes, "article_description_template", p.ArticleDescriptionTemplate)
	changes = appendChange(changes, "breed_title_template", p.BreedTitleTemplate)
	changes = appendChange(changes, "breed_description_template", p.BreedDescriptionTemplate)
	return changes
}

// PageMeta is a custom title/description override for a single page
type PageMeta struct {
	ID                string    `json:"id" bson:"id"`
	PageType          string    `json:"page_type" bson:"page_type"`
	PageID            string    `json:"page_id" bson:"page_id"`
	CustomTitle       *string   `json:"custom_title" bson:"custom_title"`
	CustomDescription *string   `json:"custom_description" bson:"custom_description"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// PageMetaCreate is the request body for creating a page override
type PageMetaCreate struct {
	PageType          string  `json:"page_type" validate:"required,oneof=article breed category"`
	PageID            string  `json:"page_id" validate:"required"`
	CustomTitle       *string `json:"custom_title"`
	CustomDescription *string `json:"custom_description"`
}

// PageMetaPatch is the request body for updating a page override
type PageMetaPatch struct {
	CustomTitle       Optional[string] `json:"custom_title"`
	CustomDescription Optional[string] `json:"custom_description"`
}

// Changes lists the fields carried by the patch
func (p *PageMetaPatch) Changes() []Change {
	var changes []Change
	changes = appendChange(changes, "custom_title", p.CustomTitle)
	changes = appendChange(changes, "custom_description", p.CustomDescription)
	return changes
}

// ResolvedMeta is the effective title and description of a page
type ResolvedMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
