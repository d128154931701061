package errors

import (
	"math"
	"unicode"
)

// MaxNodeIDLength bounds node IDs and local edge IDs accepted from callers.
const MaxNodeIDLength = 256

// ValidateNodeID checks a node ID supplied by a caller.
//
// Validation rules:
//   - No empty IDs
//   - No control characters
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}
	return validateText("node ID", id)
}

// ValidateLocalEdgeID checks an edge's local ID. Empty local IDs are allowed:
// they identify the only edge between a pair of nodes.
func ValidateLocalEdgeID(id string) error {
	if id == "" {
		return nil
	}
	return validateText("local edge ID", id)
}

func validateText(what, s string) error {
	if len(s) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", what, MaxNodeIDLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s %q contains invalid control characters", what, s)
		}
	}
	return nil
}

// ValidateSize checks a reported or declared node size. Both dimensions must
// be finite and non-negative; zero is allowed for nodes not yet measured.
func ValidateSize(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "node size must be finite, got %vx%v", width, height)
		}
		if v < 0 {
			return New(ErrCodeInvalidInput, "node size must not be negative, got %vx%v", width, height)
		}
	}
	return nil
}
