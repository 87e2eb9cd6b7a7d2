package room

import "fmt"

// SessionNotFoundError is returned when no session exists with the ID
type SessionNotFoundError struct {
	ID string
}

func (e SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}
