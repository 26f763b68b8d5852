package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmhealth/shimmock/config"
	"github.com/openmhealth/shimmock/internal"
	"github.com/openmhealth/shimmock/pkg/fixtures"
	"github.com/openmhealth/shimmock/pkg/models"
)

func TestMain(m *testing.M) {
	log = internal.GetLogger()
	os.Exit(m.Run())
}

func TestNewAppStateBuiltInFixtures(t *testing.T) {
	appState, err := NewAppState(&config.Config{})
	require.NoError(t, err)

	schemas, err := appState.SchemaStore.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, schemas.Schemas, 11)
}

func TestNewAppStateFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, fixtures.Write(path, fixtures.Generate(3, 7)))

	appState, err := NewAppState(&config.Config{Fixtures: config.FixturesConfig{Path: path}})
	require.NoError(t, err)

	schemas, err := appState.SchemaStore.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, schemas.Schemas, 3)

	raw, err := appState.ConfigurationStore.Get(context.Background())
	require.NoError(t, err)
	var c models.Configuration
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, schemas.ShimName, c.ShimName)
}

func TestNewAppStateMissingFixtureFile(t *testing.T) {
	_, err := NewAppState(&config.Config{
		Fixtures: config.FixturesConfig{Path: filepath.Join(t.TempDir(), "missing.yaml")},
	})
	assert.Error(t, err)
}
