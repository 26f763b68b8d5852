package models

import (
	"github.com/openmhealth/shimmock/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Config             *config.Config
	ConfigurationStore ConfigurationStore
	SchemaStore        SchemaStore
}
