package domain

import "time"

// Health status identifiers as stored in the database.
const (
	HealthStatusHealthy  int64 = 1
	HealthStatusMonitor  int64 = 2
	HealthStatusCritical int64 = 3
)

// HealthStatusName maps a status identifier to its display name.
func HealthStatusName(id int64) string {
	switch id {
	case HealthStatusHealthy:
		return "Healthy"
	case HealthStatusMonitor:
		return "Monitor"
	case HealthStatusCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// HealthAlert is an active health concern for a tarantula.
type HealthAlert struct {
	TarantulaID int64
	Name        string
	AlertType   string
	RaisedAt    time.Time
}

// HealthCheckRecord is a recorded observation of a tarantula's condition.
type HealthCheckRecord struct {
	ID          int64
	TarantulaID int64
	StatusID    int64
	CheckedAt   time.Time
}
