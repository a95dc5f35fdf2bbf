package domain

import "time"

// Tarantula is a single kept specimen.
type Tarantula struct {
	ID                 int64
	OwnerID            int64
	Name               string
	SpeciesName        string
	AcquisitionDate    time.Time
	EstimatedAgeMonths int64
	EnclosureNumber    string
	Notes              string
}

// FeedingStatus describes how overdue a tarantula's next feeding is.
type FeedingStatus struct {
	TarantulaID      int64
	Name             string
	SpeciesName      string
	CurrentStatus    string
	DaysSinceFeeding float64
}

// FeedingEvent records a single feeding applied against a colony.
type FeedingEvent struct {
	ID           int64
	TarantulaID  int64
	ColonyID     int64
	CricketCount int64
	FedAt        time.Time
}

// MoltRecord captures a recorded molt with the measured size.
type MoltRecord struct {
	ID          int64
	TarantulaID int64
	SizeCM      float64
	MoltedAt    time.Time
}
