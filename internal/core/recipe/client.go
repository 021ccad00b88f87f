package recipe

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pantry-keeper/internal/infrastructure/config"
	"pantry-keeper/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the recipe API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("recipe API returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Spoonacular API. The key travels as a query
// parameter on every request; failed requests are reported, never retried.
type Client struct {
	client *resty.Client
	apiKey string
}

// NewClient creates a recipe API client.
func NewClient(cfg *config.SpoonacularConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	common.LogInfo("recipe API client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("api_key", common.MaskAPIKey(cfg.APIKey)),
	)

	return &Client{
		client: client,
		apiKey: cfg.APIKey,
	}
}

// FindByIngredients asks which recipes use the given ingredients. Results
// are ranked to maximize used ingredients, and pantry staples are not
// assumed to be available.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string, number int) ([]Match, error) {
	var matches []Match
	err := c.get(ctx, "/recipes/findByIngredients", map[string]string{
		"ingredients":  strings.Join(ingredients, ","),
		"number":       strconv.Itoa(number),
		"ranking":      "1",
		"ignorePantry": "true",
	}, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetRecipeInformation fetches the full detail payload for one recipe.
func (c *Client) GetRecipeInformation(ctx context.Context, recipeID int) (*Detail, error) {
	var detail Detail
	err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", recipeID), map[string]string{
		"includeNutrition": "false",
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SearchOptions narrows a text search on the API side. Zero-valued fields
// are left out of the request.
type SearchOptions struct {
	Number       int
	Cuisine      string
	Diet         string
	MaxReadyTime int
}

// SearchRecipes runs a text search with full recipe information included.
func (c *Client) SearchRecipes(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	params := map[string]string{
		"query":                query,
		"number":               strconv.Itoa(opts.Number),
		"addRecipeInformation": "true",
		"fillIngredients":      "true",
		"instructionsRequired": "true",
	}
	if opts.Cuisine != "" {
		params["cuisine"] = opts.Cuisine
	}
	if opts.Diet != "" {
		params["diet"] = opts.Diet
	}
	if opts.MaxReadyTime > 0 {
		params["maxReadyTime"] = strconv.Itoa(opts.MaxReadyTime)
	}

	var result SearchResponse
	if err := c.get(ctx, "/recipes/complexSearch", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RandomRecipes fetches a random recipe batch.
func (c *Client) RandomRecipes(ctx context.Context, number int) ([]Detail, error) {
	var result RandomResponse
	err := c.get(ctx, "/recipes/random", map[string]string{
		"number": strconv.Itoa(number),
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Recipes, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apiKey", c.apiKey).
		Get(path)

	common.LogAPICall(path, time.Since(start), err, "")
	if err != nil {
		return fmt.Errorf("failed to call recipe API: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse recipe API response: %w", err)
	}
	return nil
}
