package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

const (
	userKey = "user"

	// MsgNotAuthenticated is returned when no bearer token is sent
	MsgNotAuthenticated = "Not authenticated"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Msg("Panic recovered")
				abortWithDetail(c, http.StatusInternalServerError, MsgInternalError)
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// bearerToken extracts the token of an "Authorization: Bearer" header
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate resolves the bearer token to a user. On failure it writes the
// error response, aborts the chain and returns false.
func authenticate(c *gin.Context, auth service.AuthService, log zerolog.Logger) (*models.User, bool) {
	token, ok := bearerToken(c)
	if !ok {
		abortWithDetail(c, http.StatusForbidden, MsgNotAuthenticated)
		return nil, false
	}
	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		respondError(c, log, err)
		return nil, false
	}
	return user, true
}

// requireUser stores the authenticated user on the context
func requireUser(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, auth, log)
		if !ok {
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// requireAdmin only lets admin users through to the handler
func requireAdmin(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, auth, log)
		if !ok {
			return
		}
		if err := service.RequireAdmin(user); err != nil {
			respondError(c, log, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// rateLimit limits requests per client IP on the routes it is attached to.
// A non-positive limit disables it.
func rateLimit(name string, perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			rateLimitHits.WithLabelValues(name).Inc()
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"detail":"Too many requests"}`))
		}),
	)
	return wrapHTTP(limiter)
}

// wrapHTTP runs a net/http middleware inside the gin chain. The chain only
// continues when the middleware calls its next handler.
func wrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

// WithCORS wraps the router with the CORS policy for the frontend origins
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
}
