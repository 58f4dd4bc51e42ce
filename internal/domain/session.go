package domain

import "time"

// Session is the single authenticated identity of the running process.
type Session struct {
	ID        string
	User      User
	StartedAt time.Time
}
