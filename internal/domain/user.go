package domain

import "time"

// User represents a registered keeper stored in the database.
type User struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
}
