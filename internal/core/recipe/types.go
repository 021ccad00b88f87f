package recipe

// Completeness says how much of a recipe has been populated.
type Completeness string

const (
	// CompletenessPartial marks a recipe built from a match listing only;
	// instructions and ingredient lines are placeholders.
	CompletenessPartial Completeness = "partial"
	// CompletenessFull marks a recipe built from a full detail payload.
	CompletenessFull Completeness = "full"
)

// Recipe is the canonical presentation-ready recipe.
type Recipe struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	ImageURL     string       `json:"image_url"`
	Category     string       `json:"category"`
	Difficulty   string       `json:"difficulty"`
	Time         string       `json:"time"`
	Description  string       `json:"description"`
	Ingredients  []string     `json:"ingredients"`
	Steps        []string     `json:"steps"`
	Completeness Completeness `json:"completeness"`
}

// Match is one entry of a find-by-ingredients response.
type Match struct {
	ID                    int               `json:"id"`
	Title                 string            `json:"title"`
	Image                 string            `json:"image"`
	UsedIngredientCount   int               `json:"usedIngredientCount"`
	MissedIngredientCount int               `json:"missedIngredientCount"`
	UsedIngredients       []MatchIngredient `json:"usedIngredients"`
}

// MatchIngredient is one matched pantry ingredient of a match entry.
type MatchIngredient struct {
	Name     string `json:"name"`
	Original string `json:"original"`
}

// Detail is a full recipe information payload.
type Detail struct {
	ID                   int                   `json:"id"`
	Title                string                `json:"title"`
	Image                string                `json:"image"`
	ReadyInMinutes       int                   `json:"readyInMinutes"`
	Servings             int                   `json:"servings"`
	SourceURL            string                `json:"sourceUrl"`
	Summary              string                `json:"summary"`
	DishTypes            []string              `json:"dishTypes"`
	ExtendedIngredients  []ExtendedIngredient  `json:"extendedIngredients"`
	AnalyzedInstructions []AnalyzedInstruction `json:"analyzedInstructions"`
}

// ExtendedIngredient is one ingredient entry of a detail payload.
type ExtendedIngredient struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// AnalyzedInstruction is one instruction block of a detail payload.
type AnalyzedInstruction struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

// InstructionStep is one numbered step.
type InstructionStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// SearchResponse is a complex-search payload.
type SearchResponse struct {
	Results      []Detail `json:"results"`
	Offset       int      `json:"offset"`
	Number       int      `json:"number"`
	TotalResults int      `json:"totalResults"`
}

// RandomResponse is a random-recipes payload.
type RandomResponse struct {
	Recipes []Detail `json:"recipes"`
}
