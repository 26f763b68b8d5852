// Package fixtures holds the canned configuration and schema data served by the mock
// registry, and reads and writes it as YAML.
package fixtures

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openmhealth/shimmock/pkg/models"
)

// Set is the content of a fixture file.
type Set struct {
	Configuration models.Configuration `yaml:"configuration"`
	SchemaList    models.SchemaList    `yaml:"schemaList"`
}

// file mirrors Set with optional sections.
type file struct {
	Configuration *models.Configuration `yaml:"configuration"`
	SchemaList    *models.SchemaList    `yaml:"schemaList"`
}

// Load reads and validates a YAML fixture file. A section the file leaves out is taken
// from the built-in fixtures; a section that is present is used as written.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	f := file{}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}

	defaults := Default()
	if err := mergo.Merge(&f, file{
		Configuration: &defaults.Configuration,
		SchemaList:    &defaults.SchemaList,
	}, mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("failed to apply default fixtures: %w", err)
	}

	set := &Set{
		Configuration: *f.Configuration,
		SchemaList:    *f.SchemaList,
	}

	if err := Validate(set); err != nil {
		return nil, fmt.Errorf("fixture file %s: %w", path, err)
	}

	return set, nil
}

// Validate checks that a fixture set is structurally complete. Setting constraints are not
// applied to the values.
func Validate(set *Set) error {
	if err := validator.New().Struct(set); err != nil {
		return fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	return nil
}

// Write saves a fixture set as YAML.
func Write(path string, set *Set) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal fixtures: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // fixtures are not secret
		return fmt.Errorf("failed to write fixture file %s: %w", path, err)
	}
	return nil
}
