package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindNull represents a null value. It is the zero Kind.
	KindNull Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindNumber represents a numeric value (float64).
	KindNumber
	// KindString represents a string value.
	KindString
	// KindArray represents an ordered list of values.
	KindArray
	// KindObject represents a nested document.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a small typed value used for metadata documents and filters.
//
// The zero Value is null. Only the field selected by Kind is meaningful.
type Value struct {
	Kind Kind
	B    bool
	N    float64
	S    string
	A    []Value
	O    Document
}

var (
	_ json.Marshaler        = Value{}
	_ json.Unmarshaler      = (*Value)(nil)
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Number returns a numeric Value.
func Number(v float64) Value { return Value{Kind: KindNumber, N: v} }

// Int returns a numeric Value holding an integer.
func Int(v int64) Value { return Value{Kind: KindNumber, N: float64(v)} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// Array returns an array Value.
func Array(v ...Value) Value {
	if v == nil {
		v = []Value{}
	}
	return Value{Kind: KindArray, A: v}
}

// Object returns an object Value.
func Object(d Document) Value {
	if d == nil {
		d = Document{}
	}
	return Value{Kind: KindObject, O: d}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsNumber returns the numeric value if Kind is KindNumber.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.N, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// AsObject returns the nested document if Kind is KindObject.
func (v Value) AsObject() (Document, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.O, true
}

// Any converts v to its plain Go form: nil, bool, float64, string,
// []any or map[string]any.
func (v Value) Any() any {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindNumber:
		return v.N
	case KindString:
		return v.S
	case KindArray:
		out := make([]any, len(v.A))
		for i := range v.A {
			out[i] = v.A[i].Any()
		}
		return out
	case KindObject:
		return v.O.Any()
	default:
		return nil
	}
}

// String renders v as compact JSON. It is meant for logs and errors.
func (v Value) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<" + v.Kind.String() + ">"
	}
	return string(b)
}

// Validate reports ErrInvalidValue if v holds a NaN or infinite number,
// at any depth.
func (v Value) Validate() error {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.N) || math.IsInf(v.N, 0) {
			return fmt.Errorf("%w: number %v is not finite", ErrInvalidValue, v.N)
		}
	case KindArray:
		for i, el := range v.A {
			if err := el.Validate(); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case KindObject:
		return v.O.Validate()
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNumber {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return json.Marshal(v.Any())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(v.Any())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindArray:
		arr := make([]Value, len(v.A))
		for i := range v.A {
			arr[i] = v.A[i].Clone()
		}
		return Value{Kind: KindArray, A: arr}
	case KindObject:
		return Value{Kind: KindObject, O: v.O.Clone()}
	default:
		return v
	}
}

// Equal reports whether a and b hold the same value. Numbers compare
// numerically; values of different kinds are never equal.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.B == b.B
	case KindNumber:
		return a.N == b.N
	case KindString:
		return a.S == b.S
	case KindArray:
		if len(a.A) != len(b.A) {
			return false
		}
		for i := range a.A {
			if !Equal(a.A[i], b.A[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return a.O.Equal(b.O)
	default:
		return false
	}
}

// FromAny converts a Go value into a typed Value.
//
// It accepts the shapes produced by encoding/json, go-json and msgpack
// decoders as well as common Go scalar and slice types.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("metadata: invalid number %q: %w", x.String(), err)
		}
		return Number(f), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case []Value:
		return Array(x...), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Array(arr...), nil
	case []string:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = String(x[i])
		}
		return Array(arr...), nil
	case []int:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Int(int64(x[i]))
		}
		return Array(arr...), nil
	case []float64:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Number(x[i])
		}
		return Array(arr...), nil
	case Document:
		return Object(x), nil
	case map[string]any:
		d, err := DocumentFromAny(x)
		if err != nil {
			return Value{}, err
		}
		return Object(d), nil
	case map[any]any:
		d := make(Document, len(x))
		for k, item := range x {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("metadata: object key must be a string, got %T", k)
			}
			vv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			d[key] = vv
		}
		return Object(d), nil
	default:
		return Value{}, fmt.Errorf("metadata: unsupported value type %T", v)
	}
}

// Document is a typed metadata document.
type Document map[string]Value

// DocumentFromAny converts a map[string]any document to a typed Document.
func DocumentFromAny(m map[string]any) (Document, error) {
	d := make(Document, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("metadata: field %q: %w", k, err)
		}
		d[k] = vv
	}
	return d, nil
}

// Clone creates a deep copy of the document.
//
// A nil document clones to an empty, non-nil document.
func (d Document) Clone() Document {
	clone := make(Document, len(d))
	for k, v := range d {
		clone[k] = v.Clone()
	}
	return clone
}

// Validate checks every value of d, see Value.Validate.
func (d Document) Validate() error {
	for _, k := range d.Keys() {
		if err := d[k].Validate(); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}
	return nil
}

// Equal reports whether d and other hold the same fields and values.
func (d Document) Equal(other Document) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		ov, ok := other[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// Keys returns the field names of d in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Any converts d into a map[string]any.
func (d Document) Any() map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v.Any()
	}
	return out
}

// String renders d as "k=v" pairs in key order.
func (d Document) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(d[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
