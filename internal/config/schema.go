package config

import (
	_ "embed"
	"fmt"

	"github.com/pdfedit/wintools/internal/validator"
)

// SchemaID identifies the embedded configuration schema.
const SchemaID = "https://wintools.invalid/config.schema.json"

//go:embed config.schema.json
var schemaContent []byte

// CompileSchema registers the embedded config schema with compiler and compiles it.
func CompileSchema(compiler validator.Compiler) (validator.Validator, error) {
	doc, err := validator.DecodeJSON(schemaContent)
	if err != nil {
		return nil, fmt.Errorf("embedded config schema is not valid JSON: %w", err)
	}
	if err := compiler.AddSchema(SchemaID, doc); err != nil {
		return nil, fmt.Errorf("cannot register config schema: %w", err)
	}
	v, err := compiler.Compile(SchemaID)
	if err != nil {
		return nil, fmt.Errorf("cannot compile config schema: %w", err)
	}
	return v, nil
}
