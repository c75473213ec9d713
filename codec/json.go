package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is the most portable option; documents are plain JSON objects.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Extension returns ".json".
func (JSON) Extension() string { return ".json" }

// Default is the default codec used by the library.
//
// Both JSON codecs write the same bytes and share the ".json" extension,
// so switching between them never orphans existing files.
var Default Codec = GoJSON{}
