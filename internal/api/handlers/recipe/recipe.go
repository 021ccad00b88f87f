package recipe

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"pantry-keeper/internal/api/handlers/respond"
	corepantry "pantry-keeper/internal/core/pantry"
	corerecipe "pantry-keeper/internal/core/recipe"
	"pantry-keeper/internal/infrastructure/config"
	"pantry-keeper/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// API is the slice of the recipe client the handlers need.
type API interface {
	corerecipe.API
	SearchRecipes(ctx context.Context, query string, opts corerecipe.SearchOptions) (*corerecipe.SearchResponse, error)
	RandomRecipes(ctx context.Context, number int) ([]corerecipe.Detail, error)
}

// PantryReader supplies pantry snapshots for recommendations.
type PantryReader interface {
	ListItems(ctx context.Context, userID string) ([]corepantry.Item, []error, error)
	WatchExpiring(ctx context.Context, userID string, windowDays int) (<-chan []corepantry.Item, <-chan error)
}

// Handler serves the recipe endpoints.
type Handler struct {
	api    API
	cache  *corerecipe.DetailCache
	pantry PantryReader
	cfg    config.RecommendConfig
}

// NewHandler wires the recipe endpoints.
func NewHandler(api API, cache *corerecipe.DetailCache, pantryStore PantryReader, cfg *config.RecommendConfig) *Handler {
	return &Handler{api: api, cache: cache, pantry: pantryStore, cfg: *cfg}
}

// filtersFromQuery reads the optional list-narrowing parameters.
func filtersFromQuery(c *gin.Context) (corerecipe.Filters, error) {
	filters := corerecipe.Filters{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
	}
	if raw := c.Query("max_time"); raw != "" {
		maxTime, err := strconv.Atoi(raw)
		if err != nil || maxTime <= 0 {
			return filters, common.NewValidationError("max_time must be a positive integer")
		}
		filters.MaxTime = maxTime
	}
	return filters, nil
}

func (h *Handler) number(c *gin.Context) (int, error) {
	raw := c.Query("number")
	if raw == "" {
		return h.cfg.MaxRecipes, nil
	}
	number, err := strconv.Atoi(raw)
	if err != nil || number <= 0 || number > 100 {
		return 0, common.NewValidationError("number must be between 1 and 100")
	}
	return number, nil
}

// Search runs a text search. Cuisine, diet and max_ready_time go to the
// API; category, difficulty and max_time narrow the result after
// normalization.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respond.Error(c, common.NewValidationError("query is required"))
		return
	}
	filters, err := filtersFromQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	number, err := h.number(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	opts := corerecipe.SearchOptions{
		Number:  number,
		Cuisine: c.Query("cuisine"),
		Diet:    c.Query("diet"),
	}
	if raw := c.Query("max_ready_time"); raw != "" {
		maxReadyTime, err := strconv.Atoi(raw)
		if err != nil || maxReadyTime <= 0 {
			respond.Error(c, common.NewValidationError("max_ready_time must be a positive integer"))
			return
		}
		opts.MaxReadyTime = maxReadyTime
	}

	result, err := h.api.SearchRecipes(c.Request.Context(), query, opts)
	if err != nil {
		respond.Error(c, err)
		return
	}

	recipes := make([]corerecipe.Recipe, 0, len(result.Results))
	for i := range result.Results {
		recipes = append(recipes, corerecipe.FromDetail(&result.Results[i]))
	}
	recipes = filters.Apply(recipes)

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   result.TotalResults,
	})
}

// Random returns a random recipe batch.
func (h *Handler) Random(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	number, err := h.number(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	details, err := h.api.RandomRecipes(c.Request.Context(), number)
	if err != nil {
		respond.Error(c, err)
		return
	}

	recipes := make([]corerecipe.Recipe, 0, len(details))
	for i := range details {
		recipes = append(recipes, corerecipe.FromDetail(&details[i]))
	}
	recipes = filters.Apply(recipes)

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// Get returns one fully populated recipe, served from the detail cache
// when possible.
func (h *Handler) Get(c *gin.Context) {
	recipeID, err := strconv.Atoi(c.Param("recipeID"))
	if err != nil || recipeID <= 0 {
		respond.Error(c, common.NewValidationError("recipe id must be a positive integer"))
		return
	}

	detail := h.cache.Get(recipeID)
	if detail == nil {
		detail, err = h.api.GetRecipeInformation(c.Request.Context(), recipeID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		h.cache.Set(recipeID, detail)
	}

	c.JSON(http.StatusOK, corerecipe.FromDetail(detail))
}

// Recommend computes recommendations from the user's current pantry.
func (h *Handler) Recommend(c *gin.Context) {
	userID := c.Param("userID")

	filters, err := filtersFromQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	items, _, err := h.pantry.ListItems(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	recommender := corerecipe.NewRecommender(h.api, h.cache, &h.cfg)
	recipes, err := recommender.RecommendOnce(c.Request.Context(), items)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": filters.Apply(recipes)})
}

// RecommendStream pushes a fresh recommendation list as a server-sent
// event whenever the user's expiring items change.
func (h *Handler) RecommendStream(c *gin.Context) {
	userID := c.Param("userID")
	ctx := c.Request.Context()

	snapshots, feedErrs := h.pantry.WatchExpiring(ctx, userID, h.cfg.ExpiryWindowDays)

	recommender := corerecipe.NewRecommender(h.api, h.cache, &h.cfg)
	go recommender.Run(ctx, snapshots)
	updates := recommender.Subscribe(ctx)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case recipes, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("recommendations", gin.H{"recipes": recipes})
			return true
		case err, ok := <-feedErrs:
			if !ok {
				return false
			}
			common.LogError("recommendation stream terminated",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			c.SSEvent("error", gin.H{"error": err.Error()})
			return false
		}
	})
}
