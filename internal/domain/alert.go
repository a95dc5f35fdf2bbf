package domain

// AlertCategory is one class of periodic notification with its own cadence.
type AlertCategory string

const (
	CategoryFeeding AlertCategory = "feeding_due"
	CategoryHealth  AlertCategory = "health_alert"
	CategoryColony  AlertCategory = "low_colony_stock"
)

// AlertItem is a single entry in a category's alert set for one tick.
type AlertItem struct {
	EntityID int64
	Name     string
	Detail   string
	// Quantity carries the category-specific figure: days since feeding,
	// weeks of stock remaining. Unused for health alerts.
	Quantity float64
}
