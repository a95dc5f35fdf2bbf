package domain

// ColonyStatus reports the current stock level of a cricket colony.
type ColonyStatus struct {
	ID             int64
	OwnerID        int64
	ColonyName     string
	SizeType       string
	CurrentCount   int64
	WeeksRemaining float64
}
