// Package metadata provides the typed metadata model and the filter
// evaluator used by vector search.
//
// # Metadata Values
//
// Metadata values form a closed tagged union:
//
//   - Null: metadata.Null()
//   - Bool: metadata.Bool(true)
//   - Number: metadata.Number(3.14), metadata.Int(2024)
//   - String: metadata.String("tech")
//   - Array: metadata.Array(metadata.String("a"), metadata.String("b"))
//   - Object: metadata.Object(metadata.Document{"k": metadata.Int(1)})
//
// Values serialize to their natural JSON (and msgpack) form, so a Document
// round-trips as a plain JSON object.
//
// Example:
//
//	meta := metadata.Document{
//	    "category": metadata.String("tech"),
//	    "year": metadata.Int(2024),
//	    "published": metadata.Bool(true),
//	}
//
// # Filters
//
// A Filter compares one metadata field against an operand:
//
//   - Eq(field, value), Ne(field, value)
//   - Gt, Gte, Lt, Lte (natural order of numbers, strings, bools, arrays)
//   - In(field, values...) (membership in an array, object keys or substring)
//
// Rows whose document lacks the field (or stores null) never match.
// Comparing values of incompatible kinds, such as a string against a
// number, returns *ErrIncompatibleComparison instead of a silent false.
//
// Example:
//
//	f := metadata.Eq("category", metadata.String("tech"))
//	ok, err := f.Match(meta)
package metadata
