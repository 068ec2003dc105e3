package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// healthTimeout bounds the database ping of /health
const healthTimeout = 2 * time.Second

// HealthChecker pings the backing database
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, db HealthChecker, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	articleHandler := NewArticleHandler(services, log)
	breedHandler := NewBreedHandler(services, log)
	analyticsHandler := NewAnalyticsHandler(services, log)
	seoHandler := NewSEOHandler(services, log)
	searchHandler := NewSearchHandler(services, log)
	uploadHandler := NewUploadHandler(services, cfg, log)

	admin := requireAdmin(services.Auth, log)
	limited := cfg.Server.RateLimitPerMinute

	// Health check
	router.GET("/health", healthCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/", welcome)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireUser(services.Auth, log), authHandler.Me)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/:id", articleHandler.Get)
			articles.POST("", admin, articleHandler.Create)
			articles.PUT("/:id", admin, articleHandler.Update)
			articles.DELETE("/:id", admin, articleHandler.Delete)
			articles.POST("/:id/rate", rateLimit("rate", limited), articleHandler.Rate)
			articles.GET("/:id/rating", articleHandler.Rating)
		}

		breeds := api.Group("/breeds")
		{
			breeds.GET("", breedHandler.List)
			breeds.GET("/:id", breedHandler.Get)
			breeds.POST("", admin, breedHandler.Create)
			breeds.PUT("/:id", admin, breedHandler.Update)
			breeds.DELETE("/:id", admin, breedHandler.Delete)
		}

		api.POST("/upload", admin, uploadHandler.Upload)
		api.DELETE("/upload", admin, uploadHandler.Delete)

		api.POST("/views/:page_type/:page_id", rateLimit("views", limited), analyticsHandler.TrackView)

		analytics := api.Group("/analytics", admin)
		{
			analytics.GET("/popular", analyticsHandler.Popular)
			analytics.GET("/stats", analyticsHandler.Stats)
		}

		seo := api.Group("/seo")
		{
			seo.GET("/settings", seoHandler.GetSettings)
			seo.PUT("/settings", admin, seoHandler.UpdateSettings)
			seo.GET("/meta/:page_type/:page_id", seoHandler.GetPageMeta)
			seo.POST("/meta", admin, seoHandler.CreatePageMeta)
			seo.PUT("/meta/:page_type/:page_id", admin, seoHandler.UpdatePageMeta)
			seo.GET("/resolve/:page_type/:page_id", seoHandler.Resolve)
		}

		api.GET("/search", searchHandler.Search)
		api.GET("/search/suggestions", searchHandler.Suggestions)
		api.GET("/sitemap.xml", searchHandler.SitemapXML)
		api.GET("/sitemap.html", searchHandler.SitemapHTML)
	}

	// Uploaded images are served read-only under their public prefix
	if cfg.Upload.PublicPrefix != "" && cfg.Upload.Dir != "" {
		router.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithDetail(c, http.StatusNotFound, "Not Found")
	})

	return router
}

func welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to PetsLib API"})
}

// healthCheck reports the database status; a failed ping is a 503
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code, dbStatus := "healthy", http.StatusOK, "ok"
		if db != nil {
			ctx, cancel := contextWithTimeout(c, healthTimeout)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status, code, dbStatus = "unhealthy", http.StatusServiceUnavailable, "unreachable"
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "petslib-api",
		})
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
