package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/api"
	"github.com/petslib-api/internal/auth"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/mocks"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/seed"
	"github.com/petslib-api/internal/service"
	"github.com/petslib-api/internal/upload"
	"github.com/rs/zerolog"
)

type testEnv struct {
	router   *gin.Engine
	repos    *repository.Repositories
	services *service.Services
}

type fakeDB struct {
	err error
}

func (f fakeDB) HealthCheck(ctx context.Context) error {
	return f.err
}

func setupTestRouter(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8001"},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Upload: config.UploadConfig{
			Dir:           t.TempDir(),
			MaxUploadSize: 1024 * 1024,
			PublicPrefix:  "/api/uploads",
		},
		Site: config.SiteConfig{FrontendURL: "https://petslib.example", Name: "PetsLib"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	log := zerolog.Nop()
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	store, err := upload.NewStore(cfg.Upload, log)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	repos := mocks.NewRepositories()
	services := service.NewServices(repos, cfg, tokens, store, log)
	return &testEnv{
		router:   api.NewRouter(services, cfg, fakeDB{}, log),
		repos:    repos,
		services: services,
	}
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	f, err := seed.Load()
	if err != nil {
		t.Fatalf("seed.Load failed: %v", err)
	}
	if _, err := seed.NewSeeder(e.repos, zerolog.Nop()).Run(context.Background(), f); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func (e *testEnv) token(t *testing.T, email string, admin bool) string {
	t.Helper()
	ctx := context.Background()
	req := &models.UserCreate{Email: email, Password: "secret1", FullName: "Test User"}
	var err error
	if admin {
		_, err = e.services.Auth.CreateAdmin(ctx, req)
	} else {
		_, err = e.services.Auth.Register(ctx, req)
	}
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tok, err := e.services.Auth.Login(ctx, &models.UserLogin{Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return tok.AccessToken
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	msg, _ := body["detail"].(string)
	return msg
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "healthy" || response["service"] != "petslib-api" {
		t.Errorf("Unexpected health response: %v", response)
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	router := api.NewRouter(&service.Services{}, cfg, fakeDB{err: errors.New("dial tcp: refused")}, zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "refused") {
		t.Error("Health response must not leak driver errors")
	}
}

func TestWelcomeAndMetrics(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Welcome to PetsLib API") {
		t.Errorf("Unexpected welcome response: %d %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/metrics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "petslib_http_requests_total") {
		t.Error("Expected request counter in metrics output")
	}
}

func TestExampleScenario(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)

	w := env.do("GET", "/api/breeds?species=dog", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var breeds models.BreedList
	json.Unmarshal(w.Body.Bytes(), &breeds)
	if len(breeds.Breeds) != 1 || breeds.Breeds[0].ID != "golden-retriever" {
		t.Errorf("Expected only the dog breed, got %+v", breeds.Breeds)
	}

	w = env.do("GET", "/api/articles?category=health&limit=1&page=2", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var articles models.ArticleList
	json.Unmarshal(w.Body.Bytes(), &articles)
	if articles.Pagination.Total != 2 || articles.Pagination.TotalPages != 2 {
		t.Errorf("Unexpected pagination: %+v", articles.Pagination)
	}
	if len(articles.Articles) != 1 || articles.Articles[0].ID != "4" {
		t.Errorf("Expected the older health article, got %+v", articles.Articles)
	}
}

func TestListArticles_BadPage(t *testing.T) {
	env := setupTestRouter(t)

	tests := map[string]string{
		"/api/articles?page=abc":      "page must be an integer",
		"/api/articles?page=0":        "page must be at least 1",
		"/api/articles?limit=51":      "limit must be between 1 and 50",
		"/api/breeds?limit=-1":        "limit must be between 1 and 50",
		"/api/seo/resolve/x/y?page=z": "page must be an integer",
	}
	for path, want := range tests {
		w := env.do("GET", path, nil, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
			continue
		}
		if got := detail(t, w); got != want {
			t.Errorf("%s: expected %q, got %q", path, want, got)
		}
	}
}

func TestAdminGuard(t *testing.T) {
	env := setupTestRouter(t)
	userToken := env.token(t, "reader@example.com", false)
	adminToken := env.token(t, "admin@petslib.com", true)

	body := models.ArticleCreate{
		Title:    "New",
		Category: "care",
		Excerpt:  "Short",
		Content:  "<p>Long</p>",
		Author:   "Editor",
		ReadTime: "2 min read",
	}

	w := env.do("POST", "/api/articles", body, "")
	if w.Code != http.StatusForbidden || detail(t, w) != api.MsgNotAuthenticated {
		t.Errorf("Missing token: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/api/articles", body, "not-a-jwt")
	if w.Code != http.StatusUnauthorized || detail(t, w) != service.MsgInvalidCredentials {
		t.Errorf("Invalid token: got %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("Expected WWW-Authenticate header on 401")
	}

	w = env.do("POST", "/api/articles", body, userToken)
	if w.Code != http.StatusForbidden || detail(t, w) != service.MsgAdminRequired {
		t.Errorf("Non-admin: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/api/articles", body, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Admin: expected status 200, got %d %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/api/analytics/stats", nil, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected analytics to require admin, got %d", w.Code)
	}
}

func TestAdminGuard_RejectedWritesLeaveDataUntouched(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)
	userToken := env.token(t, "reader@example.com", false)
	ctx := context.Background()

	before, err := env.repos.Article.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	w := env.do("DELETE", "/api/articles/1", nil, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("Delete by non-admin: expected 403, got %d %s", w.Code, w.Body.String())
	}
	if got := detail(t, w); got != service.MsgAdminRequired {
		t.Errorf("Expected %q, got %q", service.MsgAdminRequired, got)
	}

	w = env.do("POST", "/api/articles", models.ArticleCreate{
		Title: "Sneaky", Category: "care", Excerpt: "x", Content: "<p>x</p>",
		Author: "Someone", ReadTime: "1 min read",
	}, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("Create by non-admin: expected 403, got %d %s", w.Code, w.Body.String())
	}

	w = env.do("DELETE", "/api/breeds/persian", nil, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("Breed delete by non-admin: expected 403, got %d", w.Code)
	}

	after, err := env.repos.Article.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("Expected %d articles after rejected writes, got %d", len(before), len(after))
	}
	if a, _ := env.repos.Article.GetByID(ctx, "1"); a == nil {
		t.Error("Expected article 1 to survive a non-admin delete")
	}
	if b, _ := env.repos.Breed.GetByID(ctx, "persian"); b == nil {
		t.Error("Expected persian to survive a non-admin delete")
	}
}

func TestAuthEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/auth/register", models.UserCreate{
		Email: "new@example.com", Password: "secret1", FullName: "New User",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Register: expected 200, got %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "hashed_password") || strings.Contains(w.Body.String(), "$2a$") {
		t.Error("Register response must not expose the password hash")
	}

	w = env.do("POST", "/api/auth/register", models.UserCreate{
		Email: "new@example.com", Password: "secret1", FullName: "Again",
	}, "")
	if w.Code != http.StatusBadRequest || detail(t, w) != "Email already registered" {
		t.Errorf("Duplicate register: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/api/auth/login", models.UserLogin{Email: "new@example.com", Password: "nope"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Bad login: expected 401, got %d", w.Code)
	}

	w = env.do("POST", "/api/auth/login", models.UserLogin{Email: "new@example.com", Password: "secret1"}, "")
	var token models.Token
	json.Unmarshal(w.Body.Bytes(), &token)
	if token.TokenType != "bearer" || token.AccessToken == "" {
		t.Fatalf("Unexpected token response: %s", w.Body.String())
	}

	w = env.do("GET", "/api/auth/me", nil, token.AccessToken)
	var me models.User
	json.Unmarshal(w.Body.Bytes(), &me)
	if w.Code != http.StatusOK || me.Email != "new@example.com" {
		t.Errorf("Me: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/api/auth/login", "{", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Malformed body: expected 400, got %d", w.Code)
	}
}

func TestArticleLifecycle(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)
	adminToken := env.token(t, "editor@petslib.com", true)

	w := env.do("GET", "/api/articles/1", nil, "")
	var article models.Article
	json.Unmarshal(w.Body.Bytes(), &article)
	if w.Code != http.StatusOK || article.Category != "nutrition" {
		t.Fatalf("Get: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("PUT", "/api/articles/1", map[string]interface{}{"title": "Updated", "author": nil}, adminToken)
	json.Unmarshal(w.Body.Bytes(), &article)
	if w.Code != http.StatusOK || article.Title != "Updated" || article.Author != "Dr. Sarah Johnson" {
		t.Errorf("Update: got %d %+v", w.Code, article)
	}

	w = env.do("DELETE", "/api/articles/1", nil, adminToken)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Article deleted") {
		t.Errorf("Delete: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/api/articles/1", nil, "")
	if w.Code != http.StatusNotFound || detail(t, w) != "Article not found" {
		t.Errorf("Get deleted: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("DELETE", "/api/articles/1", nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("Delete twice: expected 404, got %d", w.Code)
	}
}

func TestBreedRenameKeepsID(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)
	adminToken := env.token(t, "editor@petslib.com", true)

	w := env.do("PUT", "/api/breeds/persian", map[string]string{"name": "Persian Longhair"}, adminToken)
	var breed models.Breed
	json.Unmarshal(w.Body.Bytes(), &breed)
	if w.Code != http.StatusOK || breed.ID != "persian" || breed.Name != "Persian Longhair" {
		t.Errorf("Rename: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/api/breeds?letter=p", nil, "")
	var list models.BreedList
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Breeds) != 1 || list.Breeds[0].ID != "persian" {
		t.Errorf("Letter filter: got %s", w.Body.String())
	}
}

func TestRatingEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)

	for _, r := range []int{5, 4, 4} {
		w := env.do("POST", "/api/articles/2/rate", models.RatingSubmit{Rating: r}, "")
		if w.Code != http.StatusOK {
			t.Fatalf("Rate %d: got %d %s", r, w.Code, w.Body.String())
		}
	}

	w := env.do("GET", "/api/articles/2/rating", nil, "")
	var rating models.ArticleRating
	json.Unmarshal(w.Body.Bytes(), &rating)
	if rating.TotalRatings != 3 || rating.AverageRating != 4.33 {
		t.Errorf("Unexpected rating: %+v", rating)
	}

	w = env.do("POST", "/api/articles/2/rate", models.RatingSubmit{Rating: 6}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Out of range: expected 400, got %d", w.Code)
	}

	w = env.do("POST", "/api/articles/missing/rate", models.RatingSubmit{Rating: 3}, "")
	if w.Code != http.StatusNotFound || detail(t, w) != "Article not found" {
		t.Errorf("Missing article: got %d %s", w.Code, w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	env := setupTestRouter(t, func(c *config.Config) { c.Server.RateLimitPerMinute = 2 })

	for i := 0; i < 2; i++ {
		w := env.do("POST", "/api/views/article/1", nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("View %d: expected 200, got %d", i, w.Code)
		}
	}
	w := env.do("POST", "/api/views/article/1", nil, "")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", w.Code)
	}

	// Other routes are not limited
	if w := env.do("GET", "/api/articles", nil, ""); w.Code != http.StatusOK {
		t.Errorf("Expected unlimited listing, got %d", w.Code)
	}
}

func TestViewsAndAnalytics(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)
	adminToken := env.token(t, "editor@petslib.com", true)

	env.do("POST", "/api/views/article/3", nil, "")
	env.do("POST", "/api/views/article/3", nil, "")
	env.do("POST", "/api/views/breed/persian", nil, "")

	w := env.do("POST", "/api/views/category/health", nil, "")
	if w.Code != http.StatusBadRequest || detail(t, w) != "Invalid page type" {
		t.Errorf("Invalid type: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/api/analytics/popular", nil, adminToken)
	var popular models.PopularContent
	json.Unmarshal(w.Body.Bytes(), &popular)
	if len(popular.Articles) != 1 || popular.Articles[0].Views != 2 || popular.Articles[0].Title != "Common Health Issues and Prevention" {
		t.Errorf("Unexpected popular articles: %s", w.Body.String())
	}
	if len(popular.Breeds) != 1 || popular.Breeds[0].Name != "Persian" {
		t.Errorf("Unexpected popular breeds: %s", w.Body.String())
	}

	w = env.do("GET", "/api/analytics/stats", nil, adminToken)
	var stats models.AnalyticsStats
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalArticleViews != 2 || stats.TotalBreedViews != 1 {
		t.Errorf("Unexpected stats: %s", w.Body.String())
	}
}

func TestSEOEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)
	adminToken := env.token(t, "editor@petslib.com", true)

	w := env.do("GET", "/api/seo/meta/article/1", nil, "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "{}" {
		t.Errorf("Missing meta: got %d %s", w.Code, w.Body.String())
	}

	meta := map[string]string{"page_type": "article", "page_id": "1", "custom_title": "Feed Well"}
	w = env.do("POST", "/api/seo/meta", meta, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Create meta: got %d %s", w.Code, w.Body.String())
	}
	w = env.do("POST", "/api/seo/meta", meta, adminToken)
	if w.Code != http.StatusBadRequest || detail(t, w) != "Meta tags already exist for this page" {
		t.Errorf("Duplicate meta: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("PUT", "/api/seo/meta/breed/persian", map[string]string{"custom_title": "x"}, adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("Update missing meta: expected 404, got %d", w.Code)
	}

	w = env.do("GET", "/api/seo/resolve/article/1", nil, "")
	var resolved models.ResolvedMeta
	json.Unmarshal(w.Body.Bytes(), &resolved)
	if resolved.Title != "Feed Well" {
		t.Errorf("Expected override title, got %+v", resolved)
	}

	w = env.do("PUT", "/api/seo/settings", map[string]string{"care_title": "Care | PetsLib"}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Update settings: got %d", w.Code)
	}
	w = env.do("GET", "/api/seo/resolve/category/care?page=3", nil, "")
	json.Unmarshal(w.Body.Bytes(), &resolved)
	if resolved.Title != "Care | PetsLib - Page 3 | PetsLib" {
		t.Errorf("Unexpected paginated title: %s", resolved.Title)
	}
}

func TestSearchEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)

	w := env.do("GET", "/api/search?q=a", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Short query: expected 400, got %d", w.Code)
	}

	w = env.do("GET", "/api/search?q=grooming", nil, "")
	var results []models.SearchResult
	json.Unmarshal(w.Body.Bytes(), &results)
	if len(results) == 0 {
		t.Fatalf("Expected results, got %s", w.Body.String())
	}
	for _, r := range results {
		if r.Relevance != 1.0 {
			t.Errorf("Expected relevance 1.0, got %v", r.Relevance)
		}
	}

	w = env.do("GET", "/api/search?q=100%25", nil, "")
	json.Unmarshal(w.Body.Bytes(), &results)
	if w.Code != http.StatusOK || len(results) != 0 {
		t.Errorf("Wildcard query should match literally, got %s", w.Body.String())
	}

	w = env.do("GET", "/api/search/suggestions?q=pe", nil, "")
	var suggestions []string
	json.Unmarshal(w.Body.Bytes(), &suggestions)
	if len(suggestions) != 1 || suggestions[0] != "Persian" {
		t.Errorf("Unexpected suggestions: %s", w.Body.String())
	}
}

func TestSitemapEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	env.seed(t)

	w := env.do("GET", "/api/sitemap.xml", nil, "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml") {
		t.Fatalf("XML sitemap: got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "https://petslib.example/breeds/golden-retriever") {
		t.Error("Expected breed url in XML sitemap")
	}

	w = env.do("GET", "/api/sitemap.html", nil, "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("HTML sitemap: got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "Nutrition") {
		t.Error("Expected title-cased category heading")
	}
}

func multipartImage(t *testing.T, folder, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		mw.WriteField("folder", folder)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	part.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	adminToken := env.token(t, "editor@petslib.com", true)

	var img bytes.Buffer
	png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 6)))

	body, contentType := multipartImage(t, "breeds", "dog.png", "image/png", img.Bytes())
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Upload: got %d %s", w.Code, w.Body.String())
	}

	var res models.UploadResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.Width != 8 || res.Height != 6 || !strings.HasPrefix(res.URL, "/api/uploads/breeds/") {
		t.Errorf("Unexpected upload result: %+v", res)
	}

	w = env.do("GET", res.URL, nil, "")
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), img.Bytes()) {
		t.Errorf("Serving upload: got %d", w.Code)
	}

	body, contentType = multipartImage(t, "", "notes.txt", "text/plain", []byte("hello"))
	req = httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || detail(t, w) != "File must be an image" {
		t.Errorf("Text upload: got %d %s", w.Code, w.Body.String())
	}

	w = env.do("DELETE", "/api/upload?file_path="+res.Path, nil, adminToken)
	if w.Code != http.StatusOK {
		t.Errorf("Delete: got %d %s", w.Code, w.Body.String())
	}
	w = env.do("DELETE", "/api/upload?file_path="+res.Path, nil, adminToken)
	if w.Code != http.StatusNotFound || detail(t, w) != "File not found" {
		t.Errorf("Delete twice: got %d %s", w.Code, w.Body.String())
	}
	w = env.do("DELETE", "/api/upload?file_path=../../secret", nil, adminToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Escaping path: expected 400, got %d", w.Code)
	}
}

func TestStorageFailureHidesDetails(t *testing.T) {
	env := setupTestRouter(t)
	env.repos.Article.(*mocks.MockArticleRepository).Err = errors.New("pq: connection reset by peer")

	w := env.do("GET", "/api/articles", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if got := detail(t, w); got != api.MsgInternalError {
		t.Errorf("Expected generic message, got %q", got)
	}
}

func TestWithCORS(t *testing.T) {
	env := setupTestRouter(t)
	handler := api.WithCORS(env.router, []string{"http://localhost:3000"})

	req := httptest.NewRequest("OPTIONS", "/api/articles", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest("GET", "/api/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}
