package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseRequestID tests request ID parsing
func TestParseRequestID(t *testing.T) {
	valid := NewID().String()
	tests := []struct {
		input    string
		hasError bool
	}{
		{valid, false},
		{"  " + valid + " ", false},
		{"", true},
		{"   ", true},
		{"not-a-uuid", true},
	}

	for _, test := range tests {
		got, err := ParseRequestID(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("ParseRequestID(%q) expected error, got %q", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRequestID(%q) unexpected error: %v", test.input, err)
		}
		if got.String() != valid {
			t.Errorf("ParseRequestID(%q) = %q, want %q", test.input, got, valid)
		}
	}
}
