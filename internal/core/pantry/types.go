package pantry

import (
	"pantry-keeper/internal/pkg/common"
)

// Item is one tracked ingredient instance owned by a user.
type Item struct {
	ID           string   `json:"id,omitempty"`
	IngredientID string   `json:"ingredient_id"`
	Name         string   `json:"name"`
	CategoryID   string   `json:"category_id"`
	Quantity     Quantity `json:"quantity"`
	// ExpiryDate is a day-precision date in "dd/MM/yyyy" form; blank means
	// no expiry information.
	ExpiryDate string `json:"expiry_date"`
	ImageURL   string `json:"image_url"`
	CreatedAt  string `json:"created_at"`
}

// Quantity is an amount with a unit.
type Quantity struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// Validate checks the fields a store must never accept.
func (i Item) Validate() error {
	if isBlank(i.Name) {
		return common.NewValidationError("ingredient name cannot be empty")
	}
	if i.Quantity.Amount <= 0 {
		return common.NewValidationError("quantity must be greater than 0")
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
