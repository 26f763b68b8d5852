package config

import (
	"errors"

	"github.com/invopop/jsonschema"
)

var ErrGeneratedSchemaIsNil = errors.New("generated JSON Schema is nil")

// JSONSchema returns the JSON Schema of the shimmock config file.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:   "yaml",
		ExpandedStruct: true,
	}
	schema := r.Reflect(&Config{})
	if schema == nil {
		return nil, ErrGeneratedSchemaIsNil
	}

	return schema.MarshalJSON()
}
