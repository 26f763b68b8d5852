package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmhealth/shimmock/pkg/fixtures"
	"github.com/openmhealth/shimmock/pkg/models"
)

var testCtx = context.Background()

func newConfigurationStore(t *testing.T) *MemoryConfigurationStore {
	t.Helper()
	s, err := NewMemoryConfigurationStore(fixtures.DefaultConfiguration())
	require.NoError(t, err)
	return s
}

func decodeConfiguration(t *testing.T, s *MemoryConfigurationStore) models.Configuration {
	t.Helper()
	raw, err := s.Get(testCtx)
	require.NoError(t, err)
	var c models.Configuration
	require.NoError(t, json.Unmarshal(raw, &c))
	return c
}

func TestConfigurationStoreInitial(t *testing.T) {
	s := newConfigurationStore(t)

	assert.Equal(t, fixtures.DefaultConfiguration(), decodeConfiguration(t, s))
}

func TestConfigurationStoreReplaceIsFullSwap(t *testing.T) {
	s := newConfigurationStore(t)

	require.NoError(t, s.Replace(testCtx, json.RawMessage(`{ "shimName": "X",
		"settings": [], "values": [] }`)))
	raw, err := s.Get(testCtx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shimName":"X","settings":[],"values":[]}`, string(raw))

	require.NoError(t, s.Replace(testCtx, json.RawMessage(`{}`)))
	raw, err = s.Get(testCtx)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

func TestConfigurationStoreKeepsUnknownFields(t *testing.T) {
	s := newConfigurationStore(t)

	require.NoError(t, s.Replace(testCtx, json.RawMessage(`{"shimName":"X","extra":{"a":1}}`)))
	raw, err := s.Get(testCtx)
	require.NoError(t, err)
	assert.Equal(t, `{"shimName":"X","extra":{"a":1}}`, string(raw))
}

func TestConfigurationStoreRejectsInvalidJSON(t *testing.T) {
	s := newConfigurationStore(t)
	before, err := s.Get(testCtx)
	require.NoError(t, err)

	err = s.Replace(testCtx, json.RawMessage(`{"shimName":`))
	assert.ErrorIs(t, err, models.ErrInvalidJSON)
	assert.ErrorIs(t, err, models.ErrBadRequest)

	after, err := s.Get(testCtx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestConfigurationStoreReset(t *testing.T) {
	s := newConfigurationStore(t)
	require.NoError(t, s.Replace(testCtx, json.RawMessage(`{}`)))

	require.NoError(t, s.Reset(testCtx))

	assert.Equal(t, "Withings", decodeConfiguration(t, s).ShimName)
}

func TestConfigurationStoreGetReturnsCopy(t *testing.T) {
	s := newConfigurationStore(t)
	raw, err := s.Get(testCtx)
	require.NoError(t, err)
	raw[0] = '['

	again, err := s.Get(testCtx)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again[0])
}

func TestConfigurationStoreConcurrentReplace(t *testing.T) {
	s := newConfigurationStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Replace(testCtx, json.RawMessage(`{"shimName":"X"}`)))
		}()
		go func() {
			defer wg.Done()
			_, err := s.Get(testCtx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	raw, err := s.Get(testCtx)
	require.NoError(t, err)
	assert.Equal(t, `{"shimName":"X"}`, string(raw))
}

func TestSchemaStoreGetReturnsCopy(t *testing.T) {
	s := NewMemorySchemaStore(fixtures.DefaultSchemaList())

	list, err := s.Get(testCtx)
	require.NoError(t, err)
	require.Len(t, list.Schemas, 11)
	list.Schemas[0].Name = "changed"
	list.Schemas = list.Schemas[:1]
	list.ShimName = "changed"

	again, err := s.Get(testCtx)
	require.NoError(t, err)
	assert.Equal(t, fixtures.DefaultSchemaList(), *again)
}
