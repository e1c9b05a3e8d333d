package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tattler/internal/config"
	"github.com/iliyamo/tattler/internal/handler"
	"github.com/iliyamo/tattler/internal/logger"
	"github.com/iliyamo/tattler/internal/metrics"
	"github.com/iliyamo/tattler/internal/middleware"
)

// Deps carries everything the route table wires together. Redis may be nil,
// in which case caching and rate limiting are pass-through.
type Deps struct {
	Log     *logger.Logger
	Metrics *metrics.HTTPMetrics
	// MetricsHandler serves the Prometheus exposition on /metrics.
	MetricsHandler http.Handler
	DB             handler.Pinger

	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig

	Auth        middleware.Authenticator
	Users       *handler.UserHandler
	Restaurants *handler.RestaurantHandler
	Reviews     *handler.ReviewHandler
}

// Register installs the global middleware chain and every route.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.RequestID(d.Log))
	e.Use(middleware.Logging(d.Log))
	e.Use(middleware.Metrics(d.Metrics))
	e.Use(middleware.Identify(d.Auth, d.Log))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))

	RegisterProbes(e, d)
	RegisterUsers(e, d)
	RegisterRestaurants(e, d)
	RegisterReviews(e, d)
}

// RegisterProbes exposes liveness, readiness and metrics endpoints.
func RegisterProbes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	if d.DB != nil {
		e.GET("/readyz", handler.Ready(d.DB))
	}
	if d.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(d.MetricsHandler))
	}
}

// RegisterUsers registers the account endpoints. None require a token.
// Updates and deletes purge the cache because cached comments and ratings
// embed the author's name.
func RegisterUsers(e *echo.Echo, d Deps) {
	u := d.Users
	purge := middleware.NewCacheInvalidator(d.Cache, d.Redis)

	g := e.Group("/api/users")
	g.POST("", u.Register)
	g.POST("/login", u.Login)
	g.GET("", u.List)
	g.GET("/:id", u.Get)
	g.PUT("/:id", u.Update, purge)
	g.DELETE("/:id", u.Delete, purge)
}

// RegisterRestaurants registers restaurant browsing and management. Public
// reads are cached; writes require a token and purge the cache.
func RegisterRestaurants(e *echo.Echo, d Deps) {
	h := d.Restaurants
	auth := middleware.RequireAuth(d.Auth, d.Log)
	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	purge := middleware.NewCacheInvalidator(d.Cache, d.Redis)

	g := e.Group("/api/restaurants")
	g.GET("/search", h.Search, auth)
	g.GET("", h.List, cache)
	g.GET("/:id", h.Get, cache)
	g.POST("", h.Create, auth, purge)
	g.PUT("/:id", h.Update, auth, purge)
	g.DELETE("/:id", h.Delete, auth, purge)
}

// RegisterReviews registers comments and ratings, both on their own
// collections and nested under a restaurant.
func RegisterReviews(e *echo.Echo, d Deps) {
	h := d.Reviews
	auth := middleware.RequireAuth(d.Auth, d.Log)
	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	purge := middleware.NewCacheInvalidator(d.Cache, d.Redis)

	r := e.Group("/api/restaurants/:id")
	r.GET("/comments", h.ListComments, cache)
	r.POST("/comments", h.CreateRestaurantComment, auth, purge)
	r.GET("/ratings", h.ListRatings, cache)
	r.GET("/rating", h.RatingSummary, cache)
	r.POST("/rating", h.CreateRestaurantRating, auth, purge)

	c := e.Group("/api/comments")
	c.POST("", h.CreateComment, auth, purge)
	c.GET("/:id", h.GetComment, cache)
	c.PUT("/:id", h.UpdateComment, auth, purge)
	c.DELETE("/:id", h.DeleteComment, auth, purge)

	rt := e.Group("/api/ratings")
	rt.POST("", h.CreateRating, auth, purge)
	rt.GET("/:id", h.GetRating, cache)
	rt.PUT("/:id", h.UpdateRating, auth, purge)
	rt.DELETE("/:id", h.DeleteRating, auth, purge)
}
