package models

import "context"

// Schema is a named, versioned measurement namespace. Duplicates are allowed in a SchemaList.
type Schema struct {
	Namespace string   `json:"namespace" yaml:"namespace" validate:"required"`
	Name      string   `json:"name"      yaml:"name"      validate:"required"`
	Version   string   `json:"version"   yaml:"version"   validate:"required"`
	Measures  []string `json:"measures"  yaml:"measures"`
}

type SchemaList struct {
	ShimName string   `json:"shimName" yaml:"shimName" validate:"required"`
	Schemas  []Schema `json:"schemas"  yaml:"schemas"  validate:"dive"`
}

// SchemaStore serves the read-only SchemaList.
type SchemaStore interface {
	Get(ctx context.Context) (*SchemaList, error)
}
