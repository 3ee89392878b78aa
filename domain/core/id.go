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

// Domain-specific ID types
type (
	ReportID  ID
	RequestID ID
)

func (id ReportID) String() string  { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// NewReportID creates an identifier for a screening report.
func NewReportID() ReportID { return ReportID(NewID()) }

// ParseRequestID parses a caller-supplied request ID, rejecting blanks and non-UUIDs.
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("request ID %q is not a UUID: %w", s, err)
	}
	return RequestID(s), nil
}
