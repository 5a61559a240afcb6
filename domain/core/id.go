package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 generation fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SessionID identifies one dashboard session
type SessionID ID

func (id SessionID) String() string { return ID(id).String() }

// NewSessionID creates a new session identifier
func NewSessionID() SessionID {
	return SessionID(NewID())
}

// ParseSessionID parses a string into SessionID. The value must be a UUID.
func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid session ID %q: %w", s, err)
	}
	return SessionID(s), nil
}
