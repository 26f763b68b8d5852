package store

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/openmhealth/shimmock/pkg/models"
)

var _ models.SchemaStore = &MemorySchemaStore{}

// MemorySchemaStore serves a fixed schema list. Nothing mutates it after construction.
type MemorySchemaStore struct {
	schemas models.SchemaList
}

func NewMemorySchemaStore(schemas models.SchemaList) *MemorySchemaStore {
	return &MemorySchemaStore{schemas: schemas}
}

// Get returns a deep copy so callers cannot alter the fixture.
func (s *MemorySchemaStore) Get(_ context.Context) (*models.SchemaList, error) {
	out := &models.SchemaList{}
	if err := copier.CopyWithOption(out, &s.schemas, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy schema list: %w", err)
	}
	return out, nil
}
