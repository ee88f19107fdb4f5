package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogicum/blogicum/internal/auth"
	"github.com/blogicum/blogicum/internal/cache"
	"github.com/blogicum/blogicum/internal/storage"
	"github.com/blogicum/blogicum/pkg/config"
	"github.com/blogicum/blogicum/pkg/logging"
	"github.com/blogicum/blogicum/pkg/s3"
)

// Router wires storage, cache and auth into the HTTP handlers
type Router struct {
	store  storage.Storage
	cfg    *config.Config
	cache  *cache.Cache
	media  *s3.Client
	tokens *auth.Service
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(store storage.Storage, cfg *config.Config, redisCache *cache.Cache, media *s3.Client, tokens *auth.Service) *Router {
	return &Router{
		store:  store,
		cfg:    cfg,
		cache:  redisCache,
		media:  media,
		tokens: tokens,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Auth flow
	engine.POST("/auth/register", r.Register)
	engine.POST("/auth/login", r.Login)

	// Public reads; identity only changes what the viewer may see
	public := engine.Group("/", OptionalAuth(r.tokens))
	{
		public.GET("/", r.Index)
		public.GET("/posts/:post_id", r.PostDetail)
		public.GET("/category/:category_slug", r.CategoryPosts)
		public.GET("/profile/:username", r.Profile)
		public.GET("/categories", r.Categories)
		public.GET("/locations", r.Locations)
	}

	// Authenticated mutations
	authed := engine.Group("/", RequireAuth(r.tokens))
	{
		authed.POST("/posts", r.CreatePost)
		authed.POST("/posts/:post_id/edit", r.EditPost)
		authed.POST("/posts/:post_id/delete", r.DeletePost)
		authed.POST("/posts/:post_id/comment", r.AddComment)
		authed.POST("/posts/:post_id/edit_comment/:comment_id", r.EditComment)
		authed.POST("/posts/:post_id/delete_comment/:comment_id", r.DeleteComment)
		authed.POST("/edit", r.EditProfile)
	}

	// Admin-managed resources
	admin := engine.Group("/admin", RequireAuth(r.tokens), RequireStaff())
	{
		admin.POST("/categories", r.CreateCategory)
		admin.POST("/categories/:category_slug/delete", r.DeleteCategory)
		admin.POST("/locations", r.CreateLocation)
		admin.POST("/locations/:location_id/delete", r.DeleteLocation)
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "blogicum-api",
	})
}
