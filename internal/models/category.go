package models

// Category groups catalog products. Products reference it by identifier
// only; the back-reference is never traversed by the order workflow.
type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

// NewCategory creates a category with a fresh identifier
func NewCategory(name, description string) *Category {
	return &Category{
		ID:          GenerateID("cat"),
		Name:        name,
		Description: description,
	}
}
