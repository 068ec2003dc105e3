package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
)

const articleColumns = `id, title, category, excerpt, content, author, date, read_time, image_url, created_at, updated_at`

// articleFieldColumns maps patch field names to table columns
var articleFieldColumns = map[string]string{
	"title":     "title",
	"category":  "category",
	"excerpt":   "excerpt",
	"content":   "content",
	"author":    "author",
	"readTime":  "read_time",
	"image_url": "image_url",
}

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var imageURL sql.NullString

	err := row.Scan(
		&article.ID, &article.Title, &article.Category, &article.Excerpt, &article.Content,
		&article.Author, &article.Date, &article.ReadTime, &imageURL,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		article.ImageURL = &imageURL.String
	}
	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]*models.Article, error) {
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Category, article.Excerpt, article.Content,
		article.Author, article.Date, article.ReadTime, article.ImageURL,
		article.CreatedAt, article.UpdatedAt,
	)
	return translateErr(err)
}

// BatchInsert inserts multiple articles using PostgreSQL COPY
func (r *articleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("articles",
		"id", "title", "category", "excerpt", "content", "author", "date", "read_time", "image_url", "created_at", "updated_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, article := range articles {
		_, err := stmt.ExecContext(ctx,
			article.ID, article.Title, article.Category, article.Excerpt, article.Content,
			article.Author, article.Date, article.ReadTime, article.ImageURL,
			article.CreatedAt, article.UpdatedAt,
		)
		if err != nil {
			return 0, err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, translateErr(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(articles), nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// GetByIDs retrieves the articles with the given IDs in one query
func (r *articleRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Article, error) {
	if len(ids) == 0 {
		return []*models.Article{}, nil
	}
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// List returns one page of articles, newest first, and the total match count
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) ([]*models.Article, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Category != "" {
		where = " WHERE category = $1"
		args = append(args, filter.Category)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM articles%s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		articleColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListAll returns every article ordered by title
func (r *articleRepo) ListAll(ctx context.Context) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY title`)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// Update writes the given fields and returns the updated article, or nil
// when no article has the ID
func (r *articleRepo) Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Article, error) {
	sets, args, err := buildSetClause(changes, articleFieldColumns, nil)
	if err != nil {
		return nil, err
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, now)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE articles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), articleColumns)

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// Delete removes an article, reporting whether a row was removed
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAll removes every article
func (r *articleRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM articles")
	return err
}

// Search matches the query case-insensitively against title, excerpt,
// content and category
func (r *articleRepo) Search(ctx context.Context, q string, limit int) ([]*models.Article, error) {
	query := `
		SELECT ` + articleColumns + ` FROM articles
		WHERE title ILIKE $1 OR excerpt ILIKE $1 OR content ILIKE $1 OR category ILIKE $1
		ORDER BY date DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, containsPattern(q), limit)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// TitlesWithPrefix returns article titles starting with prefix, ignoring case
func (r *articleRepo) TitlesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT title FROM articles WHERE title ILIKE $1 ORDER BY title LIMIT $2`,
		prefixPattern(prefix), limit)
	if err != nil {
		return nil, err
	}
	return collectStrings(rows)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// buildSetClause turns patch changes into "column = $n" assignments.
// encode, when set, may rewrite a value before it is bound.
func buildSetClause(changes []models.Change, columns map[string]string, encode func(field string, v interface{}) (interface{}, error)) ([]string, []interface{}, error) {
	sets := make([]string, 0, len(changes)+1)
	args := make([]interface{}, 0, len(changes)+2)
	for _, ch := range changes {
		col, ok := columns[ch.Field]
		if !ok {
			return nil, nil, fmt.Errorf("unknown field %q", ch.Field)
		}
		v := ch.Value
		if encode != nil {
			var err error
			if v, err = encode(ch.Field, v); err != nil {
				return nil, nil, err
			}
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return sets, args, nil
}
