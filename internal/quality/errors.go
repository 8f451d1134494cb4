package quality

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimension is returned for any non-positive or otherwise
// out-of-domain numeric input.
var ErrInvalidDimension = errors.New("invalid dimension")

// DimensionError names the offending input. It matches ErrInvalidDimension
// with errors.Is.
type DimensionError struct {
	Field string
	Value float64
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s = %v", ErrInvalidDimension, e.Field, e.Value)
}

func (e *DimensionError) Is(target error) bool { return target == ErrInvalidDimension }

func invalid(field string, v float64) error {
	return &DimensionError{Field: field, Value: v}
}

// positive reports whether v is a finite number greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
