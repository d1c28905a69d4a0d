package domain

import "time"

// Event groups zones under a single ticketed occasion.
type Event struct {
	ID       string
	Name     string
	StartsAt time.Time
}
