// Package models holds the immutable value types of the mystery engine:
// element categories, difficulty profiles, elimination mechanisms, campaign
// plans, and rendered scenarios. Values here are created once by the planner
// or renderer and never mutated afterwards.
package models

// Category is one of the four disjoint element collections a mystery
// solution is drawn from.
type Category string

const (
	CategorySuspect  Category = "suspect"
	CategoryItem     Category = "item"
	CategoryLocation Category = "location"
	CategoryTime     Category = "time"
)

// Categories returns all categories in their canonical order. The order is
// part of the determinism contract: the planner draws in this order.
func Categories() []Category {
	return []Category{CategorySuspect, CategoryItem, CategoryLocation, CategoryTime}
}

// Solution is the hidden four-tuple the players must deduce. It is chosen
// once per plan and never mutated.
type Solution struct {
	SuspectID  string `json:"suspectId"`
	ItemID     string `json:"itemId"`
	LocationID string `json:"locationId"`
	TimeID     string `json:"timeId"`
}

// IDFor returns the solution's element id for the given category.
func (s Solution) IDFor(category Category) string {
	switch category {
	case CategorySuspect:
		return s.SuspectID
	case CategoryItem:
		return s.ItemID
	case CategoryLocation:
		return s.LocationID
	case CategoryTime:
		return s.TimeID
	default:
		return ""
	}
}
