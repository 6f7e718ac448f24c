// Package validator provides interfaces and types for JSON Schema validation
// of wintools documents.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Draft7 is the JSON Schema draft the embedded wintools schemas are written in.
const Draft7 = "http://json-schema.org/draft-07/schema#"

// A JSONDocument is a parsed JSON value as produced by DecodeJSON.
type JSONDocument interface{}

// A JSONSchema is a parsed JSON Document representing a JSON Schema.
// A Compiler must compile the JSONSchema before use, which identifies any JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	Compile(id string) (Validator, error)
}

// DecodeJSON parses raw JSON into a document suitable for Validate.
func DecodeJSON(data []byte) (JSONDocument, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// Normalise converts an arbitrary decoded value (for example the output of a
// YAML decoder) into a JSON document by round-tripping it through encoding/json.
func Normalise(v any) (JSONDocument, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("document cannot be represented as JSON: %w", err)
	}
	return DecodeJSON(data)
}
