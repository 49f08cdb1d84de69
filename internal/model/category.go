package model

import "time"

// CategoryType indicates which kind of transactions a category applies to.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeBoth represents catch-all categories usable for either kind.
	CategoryTypeBoth CategoryType = "both"
)

// Valid reports whether the type is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense || t == CategoryTypeBoth
}

// Category is a named tag with a type affinity used to classify transactions.
// Color and Icon are presentation hints, uninterpreted by the store.
type Category struct {
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Color     string       `json:"color,omitempty"`
	Icon      string       `json:"icon,omitempty"`
}

// CategoryPatch holds the optional fields of a partial category update.
type CategoryPatch struct {
	Name  *string
	Type  *CategoryType
	Color *string
	Icon  *string
}

// Apply merges the patch over a category in place.
func (p CategoryPatch) Apply(cat *Category) {
	if p.Name != nil {
		cat.Name = *p.Name
	}
	if p.Type != nil {
		cat.Type = *p.Type
	}
	if p.Color != nil {
		cat.Color = *p.Color
	}
	if p.Icon != nil {
		cat.Icon = *p.Icon
	}
}
