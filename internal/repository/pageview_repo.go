package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
)

const pageViewColumns = `id, page_type, page_id, views, created_at, updated_at`

// pageViewRepo is the concrete implementation of PageViewRepository
type pageViewRepo struct {
	db *database.DB
}

// NewPageViewRepo creates a new page view repository
func NewPageViewRepo(db *database.DB) PageViewRepository {
	return &pageViewRepo{db: db}
}

func scanPageView(row rowScanner) (*models.PageView, error) {
	var pv models.PageView
	err := row.Scan(&pv.ID, &pv.PageType, &pv.PageID, &pv.Views, &pv.CreatedAt, &pv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pv, nil
}

// Increment bumps the counter of a page, creating it with one view
func (r *pageViewRepo) Increment(ctx context.Context, pageType, pageID string, now time.Time) (*models.PageView, error) {
	query := `
		INSERT INTO page_views (` + pageViewColumns + `)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (page_type, page_id) DO UPDATE SET
			views      = page_views.views + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + pageViewColumns
	return scanPageView(r.db.QueryRowContext(ctx, query, uuid.New().String(), pageType, pageID, now))
}

// Top returns the most viewed pages of a type
func (r *pageViewRepo) Top(ctx context.Context, pageType string, limit int) ([]*models.PageView, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pageViewColumns+` FROM page_views WHERE page_type = $1 ORDER BY views DESC, page_id LIMIT $2`,
		pageType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []*models.PageView{}
	for rows.Next() {
		pv, err := scanPageView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, pv)
	}
	return views, rows.Err()
}

// TotalsByType sums the views of every page type
func (r *pageViewRepo) TotalsByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT page_type, SUM(views) FROM page_views GROUP BY page_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var pageType string
		var total int64
		if err := rows.Scan(&pageType, &total); err != nil {
			return nil, err
		}
		totals[pageType] = total
	}
	return totals, rows.Err()
}
