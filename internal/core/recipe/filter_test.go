package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecipes() []Recipe {
	return []Recipe{
		{ID: 1, Title: "Pasta", Category: "Main course", Difficulty: "Easy", Time: "25 min"},
		{ID: 2, Title: "Tiramisu", Category: "Dessert", Difficulty: "Medium", Time: "45 min"},
		{ID: 3, Title: "Stew", Category: "Main course", Difficulty: "Hard", Time: "120 min"},
		{ID: 4, Title: "Mystery", Category: "Dessert", Difficulty: "Easy", Time: "To be determined"},
	}
}

func recipeIDs(recipes []Recipe) []int {
	ids := make([]int, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	return ids
}

func TestByCategory(t *testing.T) {
	got := ByCategory(sampleRecipes(), "dessert")
	assert.Equal(t, []int{2, 4}, recipeIDs(got))

	assert.Empty(t, ByCategory(sampleRecipes(), "Soup"))
}

func TestByDifficulty(t *testing.T) {
	got := ByDifficulty(sampleRecipes(), "EASY")
	assert.Equal(t, []int{1, 4}, recipeIDs(got))
}

func TestByMaxTime(t *testing.T) {
	got := ByMaxTime(sampleRecipes(), 60)
	assert.Equal(t, []int{1, 2}, recipeIDs(got))

	// A recipe without a numeric time cannot satisfy any bound.
	got = ByMaxTime(sampleRecipes(), 100000)
	assert.NotContains(t, recipeIDs(got), 4)
}

func TestFiltersCompose(t *testing.T) {
	recipes := sampleRecipes()

	both := Filters{Category: "Main course", MaxTime: 60}.Apply(recipes)
	assert.Equal(t, []int{1}, recipeIDs(both))

	// Same result regardless of application order.
	byHand := ByMaxTime(ByCategory(recipes, "Main course"), 60)
	assert.Equal(t, recipeIDs(both), recipeIDs(byHand))
	reversed := ByCategory(ByMaxTime(recipes, 60), "Main course")
	assert.Equal(t, recipeIDs(both), recipeIDs(reversed))
}

func TestFiltersIdempotent(t *testing.T) {
	f := Filters{Category: "Dessert", Difficulty: "Easy"}
	once := f.Apply(sampleRecipes())
	twice := f.Apply(once)
	assert.Equal(t, once, twice)
}

func TestFiltersEmptyPassThrough(t *testing.T) {
	recipes := sampleRecipes()
	got := Filters{}.Apply(recipes)
	assert.Equal(t, recipes, got)

	// The pass-through is a copy.
	got[0].Title = "changed"
	assert.Equal(t, "Pasta", recipes[0].Title)
}

func TestParseMinutes(t *testing.T) {
	assert.Equal(t, 35, parseMinutes("35 min"))
	assert.Equal(t, 120, parseMinutes("120 min"))
	assert.Equal(t, 5, parseMinutes("  5 min"))
	assert.Greater(t, parseMinutes("To be determined"), 1<<40)
	assert.Greater(t, parseMinutes(""), 1<<40)
	assert.Greater(t, parseMinutes("min 35"), 1<<40)
}
