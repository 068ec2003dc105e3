package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
)

const pageMetaColumns = `id, page_type, page_id, custom_title, custom_description, created_at, updated_at`

var pageMetaFieldColumns = map[string]string{
	"custom_title":       "custom_title",
	"custom_description": "custom_description",
}

// seoRepo is the concrete implementation of SEORepository. Settings are
// kept as one JSONB document so new template keys need no migration.
type seoRepo struct {
	db *database.DB
}

// NewSEORepo creates a new SEO repository
func NewSEORepo(db *database.DB) SEORepository {
	return &seoRepo{db: db}
}

func decodeSettings(data []byte, updatedAt time.Time) (*models.SEOSettings, error) {
	settings := models.DefaultSEOSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("decode seo settings: %w", err)
	}
	settings.ID = models.SEOSettingsID
	settings.UpdatedAt = updatedAt
	return settings, nil
}

// GetSettings returns the stored settings merged over the defaults, or nil
// when nothing was saved yet
func (r *seoRepo) GetSettings(ctx context.Context) (*models.SEOSettings, error) {
	var data []byte
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM seo_settings WHERE id = $1`, models.SEOSettingsID,
	).Scan(&data, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSettings(data, updatedAt)
}

// UpdateSettings merges the changed keys into the stored document,
// creating it on first save
func (r *seoRepo) UpdateSettings(ctx context.Context, changes []models.Change, now time.Time) (*models.SEOSettings, error) {
	doc := make(map[string]interface{}, len(changes))
	for _, ch := range changes {
		doc[ch.Field] = ch.Value
	}
	patch, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO seo_settings (id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			data       = seo_settings.data || EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
		RETURNING data, updated_at
	`
	var data []byte
	var updatedAt time.Time
	if err := r.db.QueryRowContext(ctx, query, models.SEOSettingsID, string(patch), now).Scan(&data, &updatedAt); err != nil {
		return nil, err
	}
	return decodeSettings(data, updatedAt)
}

func scanPageMeta(row rowScanner) (*models.PageMeta, error) {
	var meta models.PageMeta
	var title, description sql.NullString
	err := row.Scan(&meta.ID, &meta.PageType, &meta.PageID, &title, &description, &meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		meta.CustomTitle = &title.String
	}
	if description.Valid {
		meta.CustomDescription = &description.String
	}
	return &meta, nil
}

// GetPageMeta retrieves the override of one page
func (r *seoRepo) GetPageMeta(ctx context.Context, pageType, pageID string) (*models.PageMeta, error) {
	meta, err := scanPageMeta(r.db.QueryRowContext(ctx,
		`SELECT `+pageMetaColumns+` FROM page_meta WHERE page_type = $1 AND page_id = $2`, pageType, pageID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return meta, err
}

// CreatePageMeta inserts an override. An existing override for the same
// page yields ErrDuplicate.
func (r *seoRepo) CreatePageMeta(ctx context.Context, meta *models.PageMeta) error {
	query := `INSERT INTO page_meta (` + pageMetaColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		meta.ID, meta.PageType, meta.PageID, meta.CustomTitle, meta.CustomDescription, meta.CreatedAt, meta.UpdatedAt,
	)
	return translateErr(err)
}

// UpdatePageMeta writes the given fields, returning nil when the page has
// no override
func (r *seoRepo) UpdatePageMeta(ctx context.Context, pageType, pageID string, changes []models.Change, now time.Time) (*models.PageMeta, error) {
	sets, args, err := buildSetClause(changes, pageMetaFieldColumns, nil)
	if err != nil {
		return nil, err
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, now, pageType, pageID)

	query := fmt.Sprintf(`UPDATE page_meta SET %s WHERE page_type = $%d AND page_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), pageMetaColumns)

	meta, err := scanPageMeta(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return meta, err
}
