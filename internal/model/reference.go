package model

// CategoryType classifies ledger categories.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeRevenue CategoryType = "revenue"
)

// Event is a cost center (an event, project or venue) that payables are booked against.
type Event struct {
	ID     int64
	Name   string
	Active bool
}

// Category is a top-level ledger category.
type Category struct {
	ID   int64
	Name string
	Type CategoryType
}

// Subcategory refines a Category.
type Subcategory struct {
	ID         int64
	Name       string
	CategoryID int64
}

// UserProfile is the role attached to a back-office user.
type UserProfile string

const (
	ProfileAdmin    UserProfile = "admin"
	ProfileOperator UserProfile = "operator"
)

// AdminUser is the projection of a user needed to attribute imported rows.
type AdminUser struct {
	ID      int64
	Profile UserProfile
}
