package metadata

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Operator represents a comparison operator for filtering.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "eq"
	// OpNotEqual represents the inequality operator.
	OpNotEqual Operator = "ne"
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = "gte"
	// OpLessThan represents the less than operator.
	OpLessThan Operator = "lt"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "lte"
	// OpIn represents the membership operator.
	OpIn Operator = "in"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual, OpIn:
		return true
	default:
		return false
	}
}

// Filter represents a single metadata filter condition.
type Filter struct {
	Field    string   `json:"field" msgpack:"field"`
	Operator Operator `json:"operator" msgpack:"operator"`
	Value    Value    `json:"value" msgpack:"value"`
}

// Eq matches documents whose field equals v.
func Eq(field string, v Value) *Filter { return &Filter{Field: field, Operator: OpEqual, Value: v} }

// Ne matches documents whose field is present and differs from v.
func Ne(field string, v Value) *Filter { return &Filter{Field: field, Operator: OpNotEqual, Value: v} }

// Gt matches documents whose field is greater than v.
func Gt(field string, v Value) *Filter {
	return &Filter{Field: field, Operator: OpGreaterThan, Value: v}
}

// Gte matches documents whose field is greater than or equal to v.
func Gte(field string, v Value) *Filter {
	return &Filter{Field: field, Operator: OpGreaterEqual, Value: v}
}

// Lt matches documents whose field is less than v.
func Lt(field string, v Value) *Filter { return &Filter{Field: field, Operator: OpLessThan, Value: v} }

// Lte matches documents whose field is less than or equal to v.
func Lte(field string, v Value) *Filter {
	return &Filter{Field: field, Operator: OpLessEqual, Value: v}
}

// In matches documents whose field is one of values.
func In(field string, values ...Value) *Filter {
	return &Filter{Field: field, Operator: OpIn, Value: Array(values...)}
}

// String returns a compact representation for logs.
func (f *Filter) String() string {
	return fmt.Sprintf("%s %s %s", f.Field, f.Operator, f.Value)
}

// Validate checks the operator and operand shape without looking at data.
func (f *Filter) Validate() error {
	if !f.Operator.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedOperator, f.Operator)
	}
	if f.Field == "" {
		return fmt.Errorf("%w: empty field", ErrInvalidOperand)
	}
	if f.Operator == OpIn && !isContainer(f.Value) {
		return fmt.Errorf("%w: %q requires an array, object or string operand, got %s", ErrInvalidOperand, f.Operator, f.Value.Kind)
	}
	return nil
}

// Match evaluates the filter against a single document.
//
// A document that lacks the field, or stores null under it, never matches.
func (f *Filter) Match(doc Document) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}
	return f.match(doc)
}

func (f *Filter) match(doc Document) (bool, error) {
	stored, ok := doc[f.Field]
	if !ok || stored.Kind == KindNull {
		return false, nil
	}

	switch f.Operator {
	case OpEqual, OpNotEqual:
		eq, compatible := equalStrict(stored, f.Value)
		if !compatible {
			return false, f.incompatible(stored)
		}
		if f.Operator == OpEqual {
			return eq, nil
		}
		return !eq, nil
	case OpIn:
		return contains(f.Value, stored), nil
	default:
		c, ok := compareOrdered(stored, f.Value)
		if !ok {
			return false, f.incompatible(stored)
		}
		switch f.Operator {
		case OpGreaterThan:
			return c > 0, nil
		case OpGreaterEqual:
			return c >= 0, nil
		case OpLessThan:
			return c < 0, nil
		default:
			return c <= 0, nil
		}
	}
}

// Mask evaluates the filter for rows [0, n) and returns the set of
// matching rows. docAt returns the metadata of a row; rows must be in the
// caller's candidate order so the mask lines up with it.
//
// Evaluation stops at the first incompatible comparison.
func (f *Filter) Mask(n int, docAt func(row int) Document) (*roaring.Bitmap, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	mask := roaring.New()
	for row := 0; row < n; row++ {
		ok, err := f.match(docAt(row))
		if err != nil {
			return nil, err
		}
		if ok {
			mask.Add(uint32(row))
		}
	}
	return mask, nil
}

func (f *Filter) incompatible(stored Value) error {
	return &ErrIncompatibleComparison{
		Field:    f.Field,
		Operator: f.Operator,
		Stored:   stored.Kind,
		Operand:  f.Value.Kind,
	}
}
