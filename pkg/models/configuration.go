package models

import (
	"context"
	"encoding/json"
)

// SettingType is the declared type of a ConfigurationSetting. Values are always carried as
// strings regardless of the declared type.
type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeInteger SettingType = "integer"
	SettingTypeFloat   SettingType = "float"
)

// ConfigurationSetting describes one configurable field of a shim.
type ConfigurationSetting struct {
	SettingID   string      `json:"settingId"             yaml:"settingId"             validate:"required"`
	Type        SettingType `json:"type"                  yaml:"type"                  validate:"required,oneof=string boolean integer float"`
	Label       string      `json:"label"                 yaml:"label"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool        `json:"required"              yaml:"required"`
	Length      *int        `json:"length,omitempty"      yaml:"length,omitempty"`
	Min         *float64    `json:"min,omitempty"         yaml:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"         yaml:"max,omitempty"`
}

type ConfigurationValue struct {
	SettingID string `json:"settingId" yaml:"settingId" validate:"required"`
	Value     string `json:"value"     yaml:"value"`
}

// Configuration is the settings and current values of a single shim.
type Configuration struct {
	ShimName string                 `json:"shimName" yaml:"shimName" validate:"required"`
	Settings []ConfigurationSetting `json:"settings" yaml:"settings" validate:"dive"`
	Values   []ConfigurationValue   `json:"values"   yaml:"values"   validate:"dive"`
}

// ConfigurationStore holds the current Configuration as the JSON document it was last
// replaced with. Replace swaps the whole document; there is no merge.
type ConfigurationStore interface {
	Get(ctx context.Context) (json.RawMessage, error)
	Replace(ctx context.Context, raw json.RawMessage) error
	Reset(ctx context.Context) error
}
