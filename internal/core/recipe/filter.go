package recipe

import (
	"math"
	"strings"
)

// Filters narrows an already-fetched recipe list. Zero values mean "no
// constraint"; filters compose in any order with the same result.
type Filters struct {
	Category   string
	Difficulty string
	MaxTime    int
}

// Apply runs every set filter over the list. The input slice is not
// modified.
func (f Filters) Apply(recipes []Recipe) []Recipe {
	out := recipes
	if f.Category != "" {
		out = ByCategory(out, f.Category)
	}
	if f.Difficulty != "" {
		out = ByDifficulty(out, f.Difficulty)
	}
	if f.MaxTime > 0 {
		out = ByMaxTime(out, f.MaxTime)
	}
	if len(out) == len(recipes) {
		// Nothing matched a constraint away; still return a copy so
		// callers can't alias the original backing array.
		out = append([]Recipe(nil), recipes...)
	}
	return out
}

// ByCategory keeps recipes whose category equals the given one, case
// insensitively.
func ByCategory(recipes []Recipe, category string) []Recipe {
	kept := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if strings.EqualFold(r.Category, category) {
			kept = append(kept, r)
		}
	}
	return kept
}

// ByDifficulty keeps recipes whose difficulty equals the given one, case
// insensitively.
func ByDifficulty(recipes []Recipe, difficulty string) []Recipe {
	kept := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if strings.EqualFold(r.Difficulty, difficulty) {
			kept = append(kept, r)
		}
	}
	return kept
}

// ByMaxTime keeps recipes whose preparation time is at most maxMinutes. A
// time that carries no leading number cannot satisfy any bound.
func ByMaxTime(recipes []Recipe, maxMinutes int) []Recipe {
	kept := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if parseMinutes(r.Time) <= maxMinutes {
			kept = append(kept, r)
		}
	}
	return kept
}

// parseMinutes reads the leading digit run of a display time like
// "35 min". Anything else counts as unbounded.
func parseMinutes(display string) int {
	display = strings.TrimSpace(display)
	minutes := 0
	seen := false
	for _, r := range display {
		if r < '0' || r > '9' {
			break
		}
		minutes = minutes*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return math.MaxInt
	}
	return minutes
}
