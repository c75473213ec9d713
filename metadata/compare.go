package metadata

import (
	"cmp"
	"strings"
)

// equalStrict compares two non-null values for eq/ne. The boolean result
// is meaningless when compatible is false.
func equalStrict(stored, operand Value) (equal, compatible bool) {
	if operand.Kind == KindNull {
		return false, true
	}
	if stored.Kind != operand.Kind {
		return false, false
	}
	return Equal(stored, operand), true
}

// compareOrdered returns the natural ordering of a and b. Numbers, strings,
// bools and arrays of mutually comparable elements are ordered.
func compareOrdered(a, b Value) (int, bool) {
	if a.Kind != b.Kind {
		return 0, false
	}

	switch a.Kind {
	case KindNumber:
		return cmp.Compare(a.N, b.N), true
	case KindString:
		return strings.Compare(a.S, b.S), true
	case KindBool:
		switch {
		case a.B == b.B:
			return 0, true
		case !a.B:
			return -1, true
		default:
			return 1, true
		}
	case KindArray:
		n := min(len(a.A), len(b.A))
		for i := 0; i < n; i++ {
			c, ok := compareOrdered(a.A[i], b.A[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return cmp.Compare(len(a.A), len(b.A)), true
	default:
		return 0, false
	}
}

// contains reports whether item is a member of the container operand.
func contains(container, item Value) bool {
	switch container.Kind {
	case KindArray:
		for _, el := range container.A {
			if Equal(item, el) {
				return true
			}
		}
		return false
	case KindObject:
		if item.Kind != KindString {
			return false
		}
		_, ok := container.O[item.S]
		return ok
	case KindString:
		if item.Kind != KindString {
			return false
		}
		return strings.Contains(container.S, item.S)
	default:
		return false
	}
}

func isContainer(v Value) bool {
	return v.Kind == KindArray || v.Kind == KindObject || v.Kind == KindString
}
