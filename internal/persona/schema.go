package persona

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/easeaico/her-line/internal/types"
)

var (
	schemaOnce     sync.Once
	resolvedSchema *jsonschema.Resolved
	schemaErr      error
)

// Schema returns the JSON schema persona files are validated against,
// inferred from types.Persona.
func Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[types.Persona](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer persona schema: %w", err)
	}
	return schema, nil
}

// SchemaJSON returns the indented persona schema, for the operator CLI.
func SchemaJSON() ([]byte, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(schema, "", "  ")
}

func personaSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		schema, err := Schema()
		if err != nil {
			schemaErr = err
			return
		}
		resolvedSchema, schemaErr = schema.Resolve(nil)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to resolve persona schema: %w", schemaErr)
		}
	})
	return resolvedSchema, schemaErr
}

func validateSchema(raw any) error {
	resolved, err := personaSchema()
	if err != nil {
		return err
	}
	instance, err := normalizeJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to normalize document: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
