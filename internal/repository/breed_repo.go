package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
)

const breedColumns = `id, name, species, size, weight, lifespan, temperament, origin, history, care_requirements, health_info, ideal_for, image_url, created_at, updated_at`

var breedFieldColumns = map[string]string{
	"name":             "name",
	"species":          "species",
	"size":             "size",
	"weight":           "weight",
	"lifespan":         "lifespan",
	"temperament":      "temperament",
	"origin":           "origin",
	"history":          "history",
	"careRequirements": "care_requirements",
	"healthInfo":       "health_info",
	"idealFor":         "ideal_for",
	"image_url":        "image_url",
}

// breedRepo is the concrete implementation of BreedRepository
type breedRepo struct {
	db *database.DB
}

// NewBreedRepo creates a new breed repository
func NewBreedRepo(db *database.DB) BreedRepository {
	return &breedRepo{db: db}
}

func scanBreed(row rowScanner) (*models.Breed, error) {
	var breed models.Breed
	var careJSON []byte
	var imageURL sql.NullString

	err := row.Scan(
		&breed.ID, &breed.Name, &breed.Species, &breed.Size, &breed.Weight, &breed.Lifespan,
		pq.Array(&breed.Temperament), &breed.Origin, &breed.History, &careJSON,
		&breed.HealthInfo, &breed.IdealFor, &imageURL, &breed.CreatedAt, &breed.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(careJSON) > 0 {
		if err := json.Unmarshal(careJSON, &breed.CareRequirements); err != nil {
			return nil, fmt.Errorf("decode care requirements of %s: %w", breed.ID, err)
		}
	}
	if breed.Temperament == nil {
		breed.Temperament = []string{}
	}
	if imageURL.Valid {
		breed.ImageURL = &imageURL.String
	}
	return &breed, nil
}

func collectBreeds(rows *sql.Rows) ([]*models.Breed, error) {
	defer rows.Close()

	breeds := []*models.Breed{}
	for rows.Next() {
		breed, err := scanBreed(rows)
		if err != nil {
			return nil, err
		}
		breeds = append(breeds, breed)
	}
	return breeds, rows.Err()
}

func breedArgs(breed *models.Breed) ([]interface{}, error) {
	careJSON, err := json.Marshal(breed.CareRequirements)
	if err != nil {
		return nil, err
	}
	return []interface{}{
		breed.ID, breed.Name, breed.Species, breed.Size, breed.Weight, breed.Lifespan,
		pq.Array(breed.Temperament), breed.Origin, breed.History, string(careJSON),
		breed.HealthInfo, breed.IdealFor, breed.ImageURL, breed.CreatedAt, breed.UpdatedAt,
	}, nil
}

// Create inserts a new breed
func (r *breedRepo) Create(ctx context.Context, breed *models.Breed) error {
	args, err := breedArgs(breed)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO breeds (` + breedColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.ExecContext(ctx, query, args...)
	return translateErr(err)
}

// BatchInsert inserts multiple breeds in one transaction
func (r *breedRepo) BatchInsert(ctx context.Context, breeds []*models.Breed) (int, error) {
	if len(breeds) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO breeds (`+breedColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, breed := range breeds {
		args, err := breedArgs(breed)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, translateErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(breeds), nil
}

// GetByID retrieves a breed by ID
func (r *breedRepo) GetByID(ctx context.Context, id string) (*models.Breed, error) {
	breed, err := scanBreed(r.db.QueryRowContext(ctx, `SELECT `+breedColumns+` FROM breeds WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return breed, err
}

// GetByIDs retrieves the breeds with the given IDs in one query
func (r *breedRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Breed, error) {
	if len(ids) == 0 {
		return []*models.Breed{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+breedColumns+` FROM breeds WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectBreeds(rows)
}

// List returns one page of breeds sorted by name and the total match count
func (r *breedRepo) List(ctx context.Context, filter models.BreedFilter, page models.PageRequest) ([]*models.Breed, int, error) {
	var conds []string
	var args []interface{}
	if filter.Species != "" {
		args = append(args, filter.Species)
		conds = append(conds, fmt.Sprintf("species = $%d", len(args)))
	}
	if filter.Letter != "" {
		args = append(args, prefixPattern(filter.Letter))
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, containsPattern(filter.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(temperament) AS t WHERE t ILIKE $%d))", n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM breeds"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM breeds%s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		breedColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	breeds, err := collectBreeds(rows)
	if err != nil {
		return nil, 0, err
	}
	return breeds, total, nil
}

// ListAll returns every breed ordered by name
func (r *breedRepo) ListAll(ctx context.Context) ([]*models.Breed, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+breedColumns+` FROM breeds ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectBreeds(rows)
}

// Update writes the given fields and returns the updated breed, or nil when
// no breed has the ID. The ID itself is never rewritten.
func (r *breedRepo) Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Breed, error) {
	sets, args, err := buildSetClause(changes, breedFieldColumns, encodeBreedField)
	if err != nil {
		return nil, err
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, now, id)

	query := fmt.Sprintf(`UPDATE breeds SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), breedColumns)

	breed, err := scanBreed(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return breed, err
}

func encodeBreedField(field string, v interface{}) (interface{}, error) {
	switch field {
	case "temperament":
		tags, _ := v.([]string)
		return pq.Array(tags), nil
	case "careRequirements":
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

// Delete removes a breed, reporting whether a row was removed
func (r *breedRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM breeds WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAll removes every breed
func (r *breedRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM breeds")
	return err
}

// Search matches the query case-insensitively against name, temperament
// tags, origin and ideal-for text
func (r *breedRepo) Search(ctx context.Context, q string, limit int) ([]*models.Breed, error) {
	query := `
		SELECT ` + breedColumns + ` FROM breeds
		WHERE name ILIKE $1
		   OR origin ILIKE $1
		   OR ideal_for ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(temperament) AS t WHERE t ILIKE $1)
		ORDER BY name
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, containsPattern(q), limit)
	if err != nil {
		return nil, err
	}
	return collectBreeds(rows)
}

// NamesWithPrefix returns breed names starting with prefix, ignoring case
func (r *breedRepo) NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM breeds WHERE name ILIKE $1 ORDER BY name LIMIT $2`,
		prefixPattern(prefix), limit)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}
