// Package schema provides validation of component type parameter schemas.
//
// Component type definitions on the platform carry a JSON Schema document
// governing the parameters components of that type accept. The synchronizer
// fetches the schema per type and compiles it here before attaching it to the
// ComponentType entity; a schema that fails to compile does not block the
// entity, it only marks it as carrying an invalid schema.
package schema

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Common schema validation errors.
var (
	// ErrEmptySchema indicates the platform served an empty schema document.
	ErrEmptySchema = errors.New("schema document is empty")

	// ErrInvalidJSON indicates the schema document is not valid JSON.
	ErrInvalidJSON = errors.New("schema document is not valid JSON")

	// ErrInvalidSchema indicates the document is valid JSON but not a valid
	// JSON Schema.
	ErrInvalidSchema = errors.New("schema document is not a valid JSON Schema")
)

// ValidationResult holds the result of schema validation.
type ValidationResult struct {
	// Valid indicates if the document compiled as a JSON Schema.
	Valid bool

	// Error contains the validation error if Valid is false.
	Error error
}

// Validate compiles a schema document fetched from the platform.
//
// Parameters:
//   - data: The raw schema document as bytes
//
// Returns:
//   - *ValidationResult: Validation result with details
func Validate(data []byte) *ValidationResult {
	if len(bytes.TrimSpace(data)) == 0 {
		return &ValidationResult{Valid: false, Error: ErrEmptySchema}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Error: fmt.Errorf("%w: %v", ErrInvalidJSON, err),
		}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return &ValidationResult{
			Valid: false,
			Error: fmt.Errorf("%w: %v", ErrInvalidSchema, err),
		}
	}
	if _, err := compiler.Compile("schema.json"); err != nil {
		return &ValidationResult{
			Valid: false,
			Error: fmt.Errorf("%w: %v", ErrInvalidSchema, err),
		}
	}

	return &ValidationResult{Valid: true}
}
