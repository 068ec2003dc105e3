package mocks

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
)

// NewRepositories returns a repository set backed entirely by in-memory mocks
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:     NewMockUserRepository(),
		Article:  NewMockArticleRepository(),
		Breed:    NewMockBreedRepository(),
		Rating:   NewMockRatingRepository(),
		PageView: NewMockPageViewRepository(),
		SEO:      NewMockSEORepository(),
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func pageOf[T any](items []*T, page models.PageRequest) []*T {
	start := page.Offset()
	if start >= len(items) {
		return []*T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu          sync.Mutex
	EmailToUser map[string]*models.User
	Err         error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.EmailToUser[user.Email]; exists {
		return repository.ErrDuplicate
	}
	u := *user
	m.EmailToUser[user.Email] = &u
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.EmailToUser[email]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.EmailToUser[email]
	return exists, m.Err
}

func (m *MockUserRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailToUser = make(map[string]*models.User)
	return m.Err
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[string]*models.Article
	Err      error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Articles[article.ID]; exists {
		return repository.ErrDuplicate
	}
	a := *article
	m.Articles[article.ID] = &a
	return nil
}

func (m *MockArticleRepository) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	for _, a := range articles {
		if err := m.Create(ctx, a); err != nil {
			return 0, err
		}
	}
	return len(articles), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (m *MockArticleRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []*models.Article{}
	for _, id := range ids {
		if a, ok := m.Articles[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

// sorted returns copies of the matching articles, newest first
func (m *MockArticleRepository) sorted(match func(*models.Article) bool) []*models.Article {
	out := []*models.Article{}
	for _, a := range m.Articles {
		if match(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) ([]*models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	all := m.sorted(func(a *models.Article) bool {
		return filter.Category == "" || a.Category == filter.Category
	})
	return pageOf(all, page), len(all), nil
}

func (m *MockArticleRepository) ListAll(ctx context.Context) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	all := m.sorted(func(*models.Article) bool { return true })
	sort.SliceStable(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return all, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	for _, ch := range changes {
		v, _ := ch.Value.(string)
		switch ch.Field {
		case "title":
			a.Title = v
		case "category":
			a.Category = v
		case "excerpt":
			a.Excerpt = v
		case "content":
			a.Content = v
		case "author":
			a.Author = v
		case "readTime":
			a.ReadTime = v
		case "image_url":
			a.ImageURL = &v
		}
	}
	a.UpdatedAt = now
	out := *a
	return &out, nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Articles[id]
	delete(m.Articles, id)
	return ok, nil
}

func (m *MockArticleRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Articles = make(map[string]*models.Article)
	return m.Err
}

func (m *MockArticleRepository) Search(ctx context.Context, q string, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	all := m.sorted(func(a *models.Article) bool {
		return containsFold(a.Title, q) || containsFold(a.Excerpt, q) ||
			containsFold(a.Content, q) || containsFold(a.Category, q)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockArticleRepository) TitlesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	titles := []string{}
	for _, a := range m.Articles {
		if hasPrefixFold(a.Title, prefix) {
			titles = append(titles, a.Title)
		}
	}
	sort.Strings(titles)
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

// MockBreedRepository is a mock implementation of BreedRepository
type MockBreedRepository struct {
	mu     sync.Mutex
	Breeds map[string]*models.Breed
	Err    error
}

func NewMockBreedRepository() *MockBreedRepository {
	return &MockBreedRepository{
		Breeds: make(map[string]*models.Breed),
	}
}

func copyBreed(b *models.Breed) *models.Breed {
	c := *b
	c.Temperament = append([]string(nil), b.Temperament...)
	return &c
}

func (m *MockBreedRepository) Create(ctx context.Context, breed *models.Breed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Breeds[breed.ID]; exists {
		return repository.ErrDuplicate
	}
	m.Breeds[breed.ID] = copyBreed(breed)
	return nil
}

func (m *MockBreedRepository) BatchInsert(ctx context.Context, breeds []*models.Breed) (int, error) {
	for _, b := range breeds {
		if err := m.Create(ctx, b); err != nil {
			return 0, err
		}
	}
	return len(breeds), nil
}

func (m *MockBreedRepository) GetByID(ctx context.Context, id string) (*models.Breed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	b, ok := m.Breeds[id]
	if !ok {
		return nil, nil
	}
	return copyBreed(b), nil
}

func (m *MockBreedRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Breed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []*models.Breed{}
	for _, id := range ids {
		if b, ok := m.Breeds[id]; ok {
			out = append(out, copyBreed(b))
		}
	}
	return out, nil
}

// sorted returns copies of the matching breeds ordered by name
func (m *MockBreedRepository) sorted(match func(*models.Breed) bool) []*models.Breed {
	out := []*models.Breed{}
	for _, b := range m.Breeds {
		if match(b) {
			out = append(out, copyBreed(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func anyTagContains(tags []string, q string) bool {
	for _, t := range tags {
		if containsFold(t, q) {
			return true
		}
	}
	return false
}

func (m *MockBreedRepository) List(ctx context.Context, filter models.BreedFilter, page models.PageRequest) ([]*models.Breed, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	all := m.sorted(func(b *models.Breed) bool {
		if filter.Species != "" && b.Species != filter.Species {
			return false
		}
		if filter.Letter != "" && !hasPrefixFold(b.Name, filter.Letter) {
			return false
		}
		if filter.Search != "" && !containsFold(b.Name, filter.Search) && !anyTagContains(b.Temperament, filter.Search) {
			return false
		}
		return true
	})
	return pageOf(all, page), len(all), nil
}

func (m *MockBreedRepository) ListAll(ctx context.Context) ([]*models.Breed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(*models.Breed) bool { return true }), nil
}

func (m *MockBreedRepository) Update(ctx context.Context, id string, changes []models.Change, now time.Time) (*models.Breed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	b, ok := m.Breeds[id]
	if !ok {
		return nil, nil
	}
	for _, ch := range changes {
		switch v := ch.Value.(type) {
		case []string:
			b.Temperament = append([]string(nil), v...)
		case models.CareRequirements:
			b.CareRequirements = v
		case string:
			switch ch.Field {
			case "name":
				b.Name = v
			case "species":
				b.Species = v
			case "size":
				b.Size = v
			case "weight":
				b.Weight = v
			case "lifespan":
				b.Lifespan = v
			case "origin":
				b.Origin = v
			case "history":
				b.History = v
			case "healthInfo":
				b.HealthInfo = v
			case "idealFor":
				b.IdealFor = v
			case "image_url":
				b.ImageURL = &v
			}
		}
	}
	b.UpdatedAt = now
	return copyBreed(b), nil
}

func (m *MockBreedRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Breeds[id]
	delete(m.Breeds, id)
	return ok, nil
}

func (m *MockBreedRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Breeds = make(map[string]*models.Breed)
	return m.Err
}

func (m *MockBreedRepository) Search(ctx context.Context, q string, limit int) ([]*models.Breed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	all := m.sorted(func(b *models.Breed) bool {
		return containsFold(b.Name, q) || anyTagContains(b.Temperament, q) ||
			containsFold(b.Origin, q) || containsFold(b.IdealFor, q)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockBreedRepository) NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	names := []string{}
	for _, b := range m.Breeds {
		if hasPrefixFold(b.Name, prefix) {
			names = append(names, b.Name)
		}
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// MockRatingRepository is a mock implementation of RatingRepository
type MockRatingRepository struct {
	mu      sync.Mutex
	Ratings map[string]*models.ArticleRating
	Err     error
}

func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		Ratings: make(map[string]*models.ArticleRating),
	}
}

func (m *MockRatingRepository) Get(ctx context.Context, articleID string) (*models.ArticleRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.Ratings[articleID]
	if !ok {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (m *MockRatingRepository) Accumulate(ctx context.Context, articleID string, rating int, now time.Time) (*models.ArticleRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.Ratings[articleID]
	if !ok {
		r = &models.ArticleRating{ArticleID: articleID}
		m.Ratings[articleID] = r
	}
	r.TotalRatings++
	r.TotalScore += rating
	r.AverageRating = math.Round(float64(r.TotalScore)/float64(r.TotalRatings)*100) / 100
	r.UpdatedAt = now
	out := *r
	return &out, nil
}

func (m *MockRatingRepository) Summary(ctx context.Context) (*models.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	summary := &models.RatingSummary{}
	if len(m.Ratings) == 0 {
		return summary, nil
	}
	var sum float64
	for _, r := range m.Ratings {
		summary.TotalRatings += int64(r.TotalRatings)
		sum += r.AverageRating
	}
	summary.AverageRating = sum / float64(len(m.Ratings))
	return summary, nil
}

// MockPageViewRepository is a mock implementation of PageViewRepository
type MockPageViewRepository struct {
	mu    sync.Mutex
	Views map[string]*models.PageView // keyed by page_type + "/" + page_id
	Err   error
}

func NewMockPageViewRepository() *MockPageViewRepository {
	return &MockPageViewRepository{
		Views: make(map[string]*models.PageView),
	}
}

func (m *MockPageViewRepository) Increment(ctx context.Context, pageType, pageID string, now time.Time) (*models.PageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	key := pageType + "/" + pageID
	pv, ok := m.Views[key]
	if !ok {
		pv = &models.PageView{ID: uuid.New().String(), PageType: pageType, PageID: pageID, CreatedAt: now}
		m.Views[key] = pv
	}
	pv.Views++
	pv.UpdatedAt = now
	out := *pv
	return &out, nil
}

func (m *MockPageViewRepository) Top(ctx context.Context, pageType string, limit int) ([]*models.PageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []*models.PageView{}
	for _, pv := range m.Views {
		if pv.PageType == pageType {
			c := *pv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].PageID < out[j].PageID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockPageViewRepository) TotalsByType(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	totals := make(map[string]int64)
	for _, pv := range m.Views {
		totals[pv.PageType] += pv.Views
	}
	return totals, nil
}

// MockSEORepository is a mock implementation of SEORepository
type MockSEORepository struct {
	mu       sync.Mutex
	Settings *models.SEOSettings
	Meta     map[string]*models.PageMeta // keyed by page_type + "/" + page_id
	Err      error
}

func NewMockSEORepository() *MockSEORepository {
	return &MockSEORepository{
		Meta: make(map[string]*models.PageMeta),
	}
}

func (m *MockSEORepository) GetSettings(ctx context.Context) (*models.SEOSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil || m.Settings == nil {
		return nil, m.Err
	}
	out := *m.Settings
	return &out, nil
}

func (m *MockSEORepository) UpdateSettings(ctx context.Context, changes []models.Change, now time.Time) (*models.SEOSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Settings == nil {
		m.Settings = models.DefaultSEOSettings()
	}
	s := m.Settings
	fields := map[string]*string{
		"home_title":                      &s.HomeTitle,
		"home_description":                &s.HomeDescription,
		"default_author":                  &s.DefaultAuthor,
		"nutrition_title":                 &s.NutritionTitle,
		"nutrition_description":           &s.NutritionDescription,
		"training_title":                  &s.TrainingTitle,
		"training_description":            &s.TrainingDescription,
		"health_title":                    &s.HealthTitle,
		"health_description":              &s.HealthDescription,
		"care_title":                      &s.CareTitle,
		"care_description":                &s.CareDescription,
		"pagination_title_template":       &s.PaginationTitleTemplate,
		"pagination_description_template": &s.PaginationDescriptionTemplate,
		"article_title_template":          &s.ArticleTitleTemplate,
		"article_description_template":    &s.ArticleDescriptionTemplate,
		"breed_title_template":            &s.BreedTitleTemplate,
		"breed_description_template":      &s.BreedDescriptionTemplate,
	}
	for _, ch := range changes {
		if dst, ok := fields[ch.Field]; ok {
			*dst, _ = ch.Value.(string)
		}
	}
	s.UpdatedAt = now
	out := *s
	return &out, nil
}

func (m *MockSEORepository) GetPageMeta(ctx context.Context, pageType, pageID string) (*models.PageMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	meta, ok := m.Meta[pageType+"/"+pageID]
	if !ok {
		return nil, nil
	}
	out := *meta
	return &out, nil
}

func (m *MockSEORepository) CreatePageMeta(ctx context.Context, meta *models.PageMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	key := meta.PageType + "/" + meta.PageID
	if _, exists := m.Meta[key]; exists {
		return repository.ErrDuplicate
	}
	c := *meta
	m.Meta[key] = &c
	return nil
}

func (m *MockSEORepository) UpdatePageMeta(ctx context.Context, pageType, pageID string, changes []models.Change, now time.Time) (*models.PageMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	meta, ok := m.Meta[pageType+"/"+pageID]
	if !ok {
		return nil, nil
	}
	for _, ch := range changes {
		v, _ := ch.Value.(string)
		switch ch.Field {
		case "custom_title":
			meta.CustomTitle = &v
		case "custom_description":
			meta.CustomDescription = &v
		}
	}
	meta.UpdatedAt = now
	out := *meta
	return &out, nil
}
