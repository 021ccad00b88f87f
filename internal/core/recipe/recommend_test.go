package recipe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pantry-keeper/internal/core/pantry"
	"pantry-keeper/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu sync.Mutex

	matches   []Match
	searchErr error

	details    map[int]*Detail
	failIDs    map[int]bool
	detailWait time.Duration

	searchCalls []string
	detailCalls []int
}

func (f *fakeAPI) FindByIngredients(ctx context.Context, ingredients []string, number int) ([]Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, fmt.Sprintf("%v", ingredients))
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

func (f *fakeAPI) GetRecipeInformation(ctx context.Context, recipeID int) (*Detail, error) {
	if f.detailWait > 0 {
		time.Sleep(f.detailWait)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, recipeID)
	if f.failIDs[recipeID] {
		return nil, errors.New("boom")
	}
	detail, ok := f.details[recipeID]
	if !ok {
		return nil, errors.New("unknown recipe")
	}
	return detail, nil
}

func (f *fakeAPI) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

func testRecommendConfig() *config.RecommendConfig {
	return &config.RecommendConfig{
		ExpiryWindowDays: 7,
		MaxIngredients:   5,
		MaxCandidates:    20,
		MaxRecipes:       5,
		FanoutLimit:      4,
	}
}

func expiringItem(name string, daysAhead int) pantry.Item {
	return pantry.Item{
		Name:       name,
		Quantity:   pantry.Quantity{Amount: 1, Unit: "pcs"},
		ExpiryDate: time.Now().AddDate(0, 0, daysAhead).Format(pantry.DateLayout),
	}
}

func matchesWithDetails(n int) ([]Match, map[int]*Detail) {
	matches := make([]Match, n)
	details := make(map[int]*Detail, n)
	for i := 0; i < n; i++ {
		id := 100 + i
		matches[i] = Match{ID: id, Title: fmt.Sprintf("Recipe %d", id), UsedIngredientCount: 2}
		details[id] = &Detail{
			ID:             id,
			Title:          fmt.Sprintf("Recipe %d", id),
			ReadyInMinutes: 20,
			Summary:        fmt.Sprintf("A <b>tasty</b> dish number %d.", id),
		}
	}
	return matches, details
}

func TestRecommendOnceNoExpiringItems(t *testing.T) {
	api := &fakeAPI{}
	r := NewRecommender(api, nil, testRecommendConfig())

	items := []pantry.Item{
		expiringItem("milk", 30),
		{Name: "flour", Quantity: pantry.Quantity{Amount: 1}},
	}

	recipes, err := r.RecommendOnce(context.Background(), items)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Zero(t, api.searchCount(), "no API traffic without expiring items")
}

func TestRecommendOnceCapsIngredients(t *testing.T) {
	matches, details := matchesWithDetails(3)
	api := &fakeAPI{matches: matches, details: details}
	r := NewRecommender(api, nil, testRecommendConfig())

	var items []pantry.Item
	for i := 0; i < 50; i++ {
		items = append(items, expiringItem(fmt.Sprintf("item-%02d", i), 2))
	}

	_, err := r.RecommendOnce(context.Background(), items)
	require.NoError(t, err)

	require.Len(t, api.searchCalls, 1)
	assert.Equal(t, "[item-00 item-01 item-02 item-03 item-04]", api.searchCalls[0])
}

func TestRecommendOnceOrderAndDrops(t *testing.T) {
	matches, details := matchesWithDetails(8)
	api := &fakeAPI{
		matches: matches,
		details: details,
		// Two candidates in the middle fail to load.
		failIDs:    map[int]bool{101: true, 103: true},
		detailWait: 5 * time.Millisecond,
	}
	r := NewRecommender(api, nil, testRecommendConfig())

	recipes, err := r.RecommendOnce(context.Background(), []pantry.Item{expiringItem("milk", 1)})
	require.NoError(t, err)

	require.Len(t, recipes, 5)
	assert.Equal(t, []int{100, 102, 104, 105, 106}, recipeIDs(recipes))
	assert.Equal(t, "A tasty dish number 100.", recipes[0].Description)
	assert.Equal(t, CompletenessFull, recipes[0].Completeness)
}

func TestRecommendOnceKeepsDetailDescription(t *testing.T) {
	matches, details := matchesWithDetails(1)
	api := &fakeAPI{matches: matches, details: details}
	r := NewRecommender(api, nil, testRecommendConfig())

	recipes, err := r.RecommendOnce(context.Background(), []pantry.Item{expiringItem("milk", 1)})
	require.NoError(t, err)

	require.Len(t, recipes, 1)
	assert.Equal(t, "A tasty dish number 100.", recipes[0].Description)
	assert.NotContains(t, recipes[0].Description, "of your ingredients")
}

func TestRecommendOnceSearchError(t *testing.T) {
	api := &fakeAPI{searchErr: errors.New("quota exceeded")}
	r := NewRecommender(api, nil, testRecommendConfig())

	_, err := r.RecommendOnce(context.Background(), []pantry.Item{expiringItem("milk", 1)})
	assert.Error(t, err)
}

func TestRecommendOnceUsesDetailCache(t *testing.T) {
	matches, details := matchesWithDetails(3)
	api := &fakeAPI{matches: matches, details: details}
	cache := NewDetailCache(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	defer cache.Close()

	r := NewRecommender(api, cache, testRecommendConfig())
	items := []pantry.Item{expiringItem("milk", 1)}

	_, err := r.RecommendOnce(context.Background(), items)
	require.NoError(t, err)
	firstRound := len(api.detailCalls)

	_, err = r.RecommendOnce(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, firstRound, len(api.detailCalls), "second cycle served from cache")
}

func TestRunCycleStaleDiscarded(t *testing.T) {
	matches, details := matchesWithDetails(2)
	api := &fakeAPI{matches: matches, details: details}
	r := NewRecommender(api, nil, testRecommendConfig())

	r.generation = 5
	r.runCycle(context.Background(), []pantry.Item{expiringItem("milk", 1)}, 4)

	current, err := r.Current()
	assert.NoError(t, err)
	assert.Nil(t, current, "stale cycle must not publish")
}

func TestRunCycleErrorKeepsPreviousList(t *testing.T) {
	matches, details := matchesWithDetails(2)
	api := &fakeAPI{matches: matches, details: details}
	r := NewRecommender(api, nil, testRecommendConfig())

	r.generation = 1
	r.runCycle(context.Background(), []pantry.Item{expiringItem("milk", 1)}, 1)
	published, err := r.Current()
	require.NoError(t, err)
	require.Len(t, published, 2)

	api.mu.Lock()
	api.searchErr = errors.New("quota exceeded")
	api.mu.Unlock()

	r.generation = 2
	r.runCycle(context.Background(), []pantry.Item{expiringItem("milk", 1)}, 2)

	current, err := r.Current()
	assert.Error(t, err)
	assert.Equal(t, published, current, "failed cycle keeps the last good list")
}

func TestRunRecomputesPerSnapshot(t *testing.T) {
	matches, details := matchesWithDetails(1)
	api := &fakeAPI{matches: matches, details: details}
	r := NewRecommender(api, nil, testRecommendConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan []pantry.Item)
	go r.Run(ctx, snapshots)

	updates := r.Subscribe(ctx)

	snapshots <- []pantry.Item{expiringItem("milk", 1)}

	select {
	case recipes := <-updates:
		require.Len(t, recipes, 1)
		assert.Equal(t, 100, recipes[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no recommendation published")
	}
}
