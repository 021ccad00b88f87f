package recipe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pantry-keeper/internal/core/pantry"
	"pantry-keeper/internal/infrastructure/config"
	"pantry-keeper/internal/pkg/common"

	"go.uber.org/zap"
)

// API is the slice of the recipe client the recommender needs.
type API interface {
	FindByIngredients(ctx context.Context, ingredients []string, number int) ([]Match, error)
	GetRecipeInformation(ctx context.Context, recipeID int) (*Detail, error)
}

// Recommender turns pantry changes into a ranked recipe list. It keeps the
// latest result; a failed cycle leaves the previous list in place and a
// superseded cycle never publishes.
type Recommender struct {
	api   API
	cache *DetailCache
	cfg   config.RecommendConfig

	generation uint64

	mu          sync.Mutex
	current     []Recipe
	lastErr     error
	subscribers map[int]chan []Recipe
	nextSubID   int
}

// NewRecommender wires the recommendation pipeline.
func NewRecommender(api API, cache *DetailCache, cfg *config.RecommendConfig) *Recommender {
	return &Recommender{
		api:         api,
		cache:       cache,
		cfg:         *cfg,
		subscribers: make(map[int]chan []Recipe),
	}
}

// RecommendOnce computes recommendations for one pantry snapshot. Items
// outside the expiry window are ignored; an empty expiring set yields an
// empty list without touching the API.
func (r *Recommender) RecommendOnce(ctx context.Context, items []pantry.Item) ([]Recipe, error) {
	now := time.Now()
	expiring := make([]pantry.Item, 0, len(items))
	for _, item := range items {
		if pantry.IsExpiringWithin(item, r.cfg.ExpiryWindowDays, now) {
			expiring = append(expiring, item)
		}
	}
	if len(expiring) == 0 {
		return []Recipe{}, nil
	}

	if len(expiring) > r.cfg.MaxIngredients {
		expiring = expiring[:r.cfg.MaxIngredients]
	}
	names := make([]string, len(expiring))
	for i, item := range expiring {
		names[i] = item.Name
	}

	matches, err := r.api.FindByIngredients(ctx, names, r.cfg.MaxCandidates)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []Recipe{}, nil
	}

	details := r.fetchDetails(ctx, matches)

	recipes := make([]Recipe, 0, r.cfg.MaxRecipes)
	for i := range matches {
		if len(recipes) == r.cfg.MaxRecipes {
			break
		}
		if details[i] == nil {
			continue
		}
		recipes = append(recipes, FromDetail(details[i]))
	}

	common.LogInfo("recommendations computed",
		zap.Int("expiring_items", len(expiring)),
		zap.Int("candidates", len(matches)),
		zap.Int("recipes", len(recipes)),
	)
	return recipes, nil
}

// fetchDetails loads detail payloads for every match with a bounded worker
// count, keeping candidate order. A failed fetch leaves a nil slot; losing
// one candidate must not sink the cycle.
func (r *Recommender) fetchDetails(ctx context.Context, matches []Match) []*Detail {
	details := make([]*Detail, len(matches))
	sem := make(chan struct{}, r.cfg.FanoutLimit)
	var wg sync.WaitGroup

	for i, match := range matches {
		if cached := r.cache.Get(match.ID); cached != nil {
			details[i] = cached
			continue
		}

		wg.Add(1)
		go func(i int, recipeID int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			detail, err := r.api.GetRecipeInformation(ctx, recipeID)
			if err != nil {
				common.LogWarn("recipe detail fetch failed",
					zap.Int("recipe_id", recipeID),
					zap.Error(err),
				)
				return
			}
			r.cache.Set(recipeID, detail)
			details[i] = detail
		}(i, match.ID)
	}

	wg.Wait()
	return details
}

// Run recomputes recommendations for every snapshot until ctx ends or the
// feed closes. Each snapshot starts a new cycle; a cycle finishing after a
// newer one has started is discarded.
func (r *Recommender) Run(ctx context.Context, snapshots <-chan []pantry.Item) {
	for {
		select {
		case <-ctx.Done():
			return
		case items, ok := <-snapshots:
			if !ok {
				return
			}
			gen := atomic.AddUint64(&r.generation, 1)
			go r.runCycle(ctx, items, gen)
		}
	}
}

func (r *Recommender) runCycle(ctx context.Context, items []pantry.Item, gen uint64) {
	recipes, err := r.RecommendOnce(ctx, items)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != atomic.LoadUint64(&r.generation) {
		common.LogDebug("stale recommendation cycle discarded")
		return
	}

	if err != nil {
		// Keep serving the previous list.
		r.lastErr = err
		common.LogError("recommendation cycle failed", zap.Error(err))
		return
	}

	r.current = recipes
	r.lastErr = nil
	for _, sub := range r.subscribers {
		select {
		case sub <- recipes:
		default:
		}
	}
}

// Current returns the latest published list and the last cycle error.
func (r *Recommender) Current() ([]Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.lastErr
}

// Subscribe delivers every published list until ctx ends. Slow consumers
// miss intermediate lists rather than block publishing.
func (r *Recommender) Subscribe(ctx context.Context) <-chan []Recipe {
	ch := make(chan []Recipe, 1)

	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = ch
	if r.current != nil {
		ch <- r.current
	}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.subscribers, id)
		r.mu.Unlock()
		close(ch)
	}()

	return ch
}
