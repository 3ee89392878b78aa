package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input contract errors
	ErrEmptyInput        = errors.New("empty input")
	ErrEmptyTail         = errors.New("quartile tail has no members")
	ErrEmptyClass        = errors.New("class absent from labels")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNonBinaryLabel    = errors.New("label outside {0,1}")

	// Policy errors
	ErrInvalidPolicy = errors.New("invalid screening policy")

	// Dataset errors
	ErrColumnNotFound = errors.New("column not found")
	ErrNonNumeric     = errors.New("non-numeric value")
)

// FeatureError reports which precondition failed on which feature column.
type FeatureError struct {
	Feature int
	Err     error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %d: %v", e.Feature, e.Err)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Error constructors with context
func NewFeatureError(feature int, err error) error {
	if err == nil {
		return nil
	}
	return &FeatureError{Feature: feature, Err: err}
}

func NewEmptyClassError(class int) error {
	return fmt.Errorf("%w: class %d", ErrEmptyClass, class)
}

func NewDimensionError(what string, want, got int) error {
	return fmt.Errorf("%w: %s expected %d, got %d", ErrDimensionMismatch, what, want, got)
}

func NewLabelError(index int, value float64) error {
	return fmt.Errorf("%w: labels[%d] = %v", ErrNonBinaryLabel, index, value)
}

func NewPolicyError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidPolicy, field, reason)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrEmptyTail) ||
		errors.Is(err, ErrEmptyClass) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrNonBinaryLabel)
}

func IsDatasetError(err error) bool {
	return errors.Is(err, ErrColumnNotFound) || errors.Is(err, ErrNonNumeric)
}

// FeatureIndex returns the feature index carried by err, if any.
func FeatureIndex(err error) (int, bool) {
	var fe *FeatureError
	if errors.As(err, &fe) {
		return fe.Feature, true
	}
	return -1, false
}
