package recipe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Display vocabulary for fields a payload may not carry.
const (
	DefaultCategory  = "Main course"
	Unknown          = "To be determined"
	StepsPlaceholder = "Instructions not available"
	PartialStepsHint = "Load details to see the preparation steps"
)

// Difficulty levels derived from preparation time.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// categoryNames maps API dish types to display categories. The first dish
// type with a known translation wins.
var categoryNames = map[string]string{
	"main course": "Main course",
	"side dish":   "Side dish",
	"dessert":     "Dessert",
	"appetizer":   "Appetizer",
	"salad":       "Salad",
	"bread":       "Bread",
	"breakfast":   "Breakfast",
	"soup":        "Soup",
	"beverage":    "Beverage",
	"sauce":       "Sauce",
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// CategoryFor picks the display category for a dish type list.
func CategoryFor(dishTypes []string) string {
	for _, dishType := range dishTypes {
		if name, ok := categoryNames[strings.ToLower(strings.TrimSpace(dishType))]; ok {
			return name
		}
	}
	return DefaultCategory
}

// DifficultyFor derives a difficulty from the preparation time in minutes.
func DifficultyFor(readyInMinutes int) string {
	switch {
	case readyInMinutes <= 30:
		return DifficultyEasy
	case readyInMinutes <= 60:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// TimeFor renders the preparation time.
func TimeFor(readyInMinutes int) string {
	if readyInMinutes <= 0 {
		return Unknown
	}
	return fmt.Sprintf("%d min", readyInMinutes)
}

// IngredientLine renders one ingredient as "amount unit name" with the
// amount truncated to a whole number. Missing parts are skipped.
func IngredientLine(ing ExtendedIngredient) string {
	parts := make([]string, 0, 3)
	if ing.Amount > 0 {
		parts = append(parts, strconv.Itoa(int(ing.Amount)))
	}
	if unit := strings.TrimSpace(ing.Unit); unit != "" {
		parts = append(parts, unit)
	}
	if name := strings.TrimSpace(ing.Name); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}

// StepLines flattens instruction blocks into "N. text" lines, renumbering
// across blocks. An empty result gets a single placeholder line.
func StepLines(instructions []AnalyzedInstruction) []string {
	var lines []string
	n := 0
	for _, block := range instructions {
		for _, step := range block.Steps {
			text := strings.TrimSpace(step.Step)
			if text == "" {
				continue
			}
			n++
			lines = append(lines, fmt.Sprintf("%d. %s", n, text))
		}
	}
	if len(lines) == 0 {
		return []string{StepsPlaceholder}
	}
	return lines
}

// StripHTML removes markup tags and collapses the remaining whitespace.
func StripHTML(s string) string {
	plain := htmlTagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(plain), " ")
}

// FromDetail builds a fully populated recipe from a detail payload.
func FromDetail(detail *Detail) Recipe {
	ingredients := make([]string, 0, len(detail.ExtendedIngredients))
	for _, ing := range detail.ExtendedIngredients {
		if line := IngredientLine(ing); line != "" {
			ingredients = append(ingredients, line)
		}
	}

	return Recipe{
		ID:           detail.ID,
		Title:        detail.Title,
		ImageURL:     detail.Image,
		Category:     CategoryFor(detail.DishTypes),
		Difficulty:   DifficultyFor(detail.ReadyInMinutes),
		Time:         TimeFor(detail.ReadyInMinutes),
		Description:  StripHTML(detail.Summary),
		Ingredients:  ingredients,
		Steps:        StepLines(detail.AnalyzedInstructions),
		Completeness: CompletenessFull,
	}
}

// FromMatch builds a thin recipe from a match listing. Identity, the
// used-ingredient count and the matched ingredient lines are real;
// everything else waits for a detail fetch.
func FromMatch(match Match) Recipe {
	ingredients := make([]string, 0, len(match.UsedIngredients))
	for _, ing := range match.UsedIngredients {
		line := strings.TrimSpace(ing.Original)
		if line == "" {
			line = strings.TrimSpace(ing.Name)
		}
		if line != "" {
			ingredients = append(ingredients, line)
		}
	}

	return Recipe{
		ID:           match.ID,
		Title:        match.Title,
		ImageURL:     match.Image,
		Category:     Unknown,
		Difficulty:   Unknown,
		Time:         Unknown,
		Description:  fmt.Sprintf("Uses %d of your ingredients", match.UsedIngredientCount),
		Ingredients:  ingredients,
		Steps:        []string{PartialStepsHint},
		Completeness: CompletenessPartial,
	}
}
