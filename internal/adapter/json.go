package adapter

import (
	"encoding/json"
)

// JSON encodes command output and decodes registry documents
type JSON interface {
	Marshal(v interface{}) ([]byte, error)
	// MarshalIndent encodes v for human readers
	MarshalIndent(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type stdJSON struct {
	indent string
}

// NewJSON creates a JSON codec indenting with two spaces
func NewJSON() JSON {
	return &stdJSON{indent: "  "}
}

func (j *stdJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (j *stdJSON) MarshalIndent(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", j.indent)
}

func (j *stdJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
