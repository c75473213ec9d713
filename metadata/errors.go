package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperator is returned for operators outside eq, ne, gt,
	// gte, lt, lte and in.
	ErrUnsupportedOperator = errors.New("unsupported filter operator")

	// ErrInvalidOperand is returned when a filter is structurally invalid,
	// e.g. an empty field or an "in" operand that is not a container.
	ErrInvalidOperand = errors.New("invalid filter operand")

	// ErrInvalidValue is returned for values that cannot be persisted, such
	// as NaN or infinite numbers.
	ErrInvalidValue = errors.New("invalid metadata value")
)

// ErrIncompatibleComparison indicates that a stored metadata value and the
// filter operand cannot be compared with the requested operator.
type ErrIncompatibleComparison struct {
	Field    string
	Operator Operator
	Stored   Kind
	Operand  Kind
}

func (e *ErrIncompatibleComparison) Error() string {
	return fmt.Sprintf("cannot compare %s field %q with %s using %q", e.Stored, e.Field, e.Operand, e.Operator)
}
