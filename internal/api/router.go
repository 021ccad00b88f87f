package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	healthHandler "pantry-keeper/internal/api/handlers/health"
	pantryHandler "pantry-keeper/internal/api/handlers/pantry"
	profileHandler "pantry-keeper/internal/api/handlers/profile"
	recipeHandler "pantry-keeper/internal/api/handlers/recipe"
	"pantry-keeper/internal/api/middleware"
	"pantry-keeper/internal/core/pantry"
	"pantry-keeper/internal/core/profile"
	"pantry-keeper/internal/core/recipe"
	"pantry-keeper/internal/infrastructure/config"
	"pantry-keeper/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	timeoutDuration = 30 * time.Second
	// 1MB is plenty for item and settings payloads.
	maxBodySize = 1 << 20
)

// SetupRouter builds the HTTP surface on top of the storage and recipe API
// clients.
func SetupRouter(cfg *config.Config, redisClient *redis.Client, detailCache *recipe.DetailCache) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// Request deadline for everything except the event streams, which stay
	// open until the client goes away.
	router.Use(func(c *gin.Context) {
		if strings.HasSuffix(c.Request.URL.Path, "/stream") {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	pantryStore := pantry.NewStore(redisClient)
	profileStore := profile.NewStore(redisClient)
	recipeClient := recipe.NewClient(&cfg.Spoonacular)

	healthH := healthHandler.NewHandler(cfg, redisClient, detailCache)
	pantryH := pantryHandler.NewHandler(pantryStore, &cfg.Recommend)
	recipeH := recipeHandler.NewHandler(recipeClient, detailCache, pantryStore, &cfg.Recommend)
	profileH := profileHandler.NewHandler(profileStore)

	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users/:userID")
		{
			pantryGroup := users.Group("/pantry")
			{
				pantryGroup.GET("", pantryH.List)
				pantryGroup.POST("", pantryH.Add)
				pantryGroup.PUT("/:itemID", pantryH.Update)
				pantryGroup.DELETE("/:itemID", pantryH.Delete)
				pantryGroup.GET("/expiring", pantryH.Expiring)
				pantryGroup.GET("/stream", pantryH.Stream)
			}

			users.GET("/recommendations", recipeH.Recommend)
			users.GET("/recommendations/stream", recipeH.RecommendStream)

			users.GET("/profile", profileH.Get)
			users.PUT("/profile", profileH.Put)
			users.PUT("/profile/image", profileH.PutImage)
			users.POST("/profile/completed-recipes", profileH.CompleteRecipe)
			users.GET("/settings/notifications", profileH.GetNotifications)
			users.PUT("/settings/notifications", profileH.PutNotifications)
			users.GET("/settings/privacy", profileH.GetPrivacy)
			users.PUT("/settings/privacy", profileH.PutPrivacy)
		}

		recipesGroup := api.Group("/recipes")
		{
			recipesGroup.GET("/search", recipeH.Search)
			recipesGroup.GET("/random", recipeH.Random)
			recipesGroup.GET("/:recipeID", recipeH.Get)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
