package fixtures

import "github.com/openmhealth/shimmock/pkg/models"

const DefaultShimName = "Withings"

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

// DefaultConfiguration returns a fresh copy of the built-in Withings configuration.
func DefaultConfiguration() models.Configuration {
	return models.Configuration{
		ShimName: DefaultShimName,
		Settings: []models.ConfigurationSetting{
			{
				SettingID:   "string.test.path",
				Type:        models.SettingTypeString,
				Length:      intPtr(12),
				Label:       "String mock",
				Description: "A required string mock that must be 12 characters",
				Required:    true,
			},
			{
				SettingID:   "boolean.test.path",
				Type:        models.SettingTypeBoolean,
				Label:       "Boolean mock",
				Description: "An optional boolean with a super long description that must be truncated.",
				Required:    false,
			},
			{
				SettingID: "integer.test.path",
				Type:      models.SettingTypeInteger,
				Min:       floatPtr(0),
				Max:       floatPtr(100),
				Label:     "Integer mock with a really long label",
				Required:  true,
			},
			{
				SettingID: "float.test.path",
				Type:      models.SettingTypeFloat,
				Label:     "Float mock",
				Required:  false,
			},
		},
		Values: []models.ConfigurationValue{
			{SettingID: "string.test.path", Value: "dfhg29h92020"},
			{SettingID: "boolean.test.path", Value: "false"},
			{SettingID: "integer.test.path", Value: "3"},
			{SettingID: "float.test.path", Value: "1.01"},
		},
	}
}

func stepsAndMeatballs() []string { return []string{"step count", "meatball index"} }

func stepsAndMelba() []string { return []string{"step count", "melbatoast index"} }

// DefaultSchemaList returns a fresh copy of the built-in Withings schema list. The
// duplicate omh/schema-name/1.2 entries are intentional, the UI has to cope with them.
func DefaultSchemaList() models.SchemaList {
	return models.SchemaList{
		ShimName: DefaultShimName,
		Schemas: []models.Schema{
			{Namespace: "granola", Name: "schema-name", Version: "1.x", Measures: []string{"distance", "pies eaten"}},
			{Namespace: "omh", Name: "schema-name", Version: "1.2", Measures: stepsAndMeatballs()},
			{Namespace: "omh", Name: "schema-name", Version: "1.1", Measures: stepsAndMelba()},
			{Namespace: "omh", Name: "schema-name", Version: "1.2", Measures: stepsAndMeatballs()},
			{Namespace: "omh", Name: "schema-with-name", Version: "1.11", Measures: stepsAndMelba()},
			{Namespace: "omh", Name: "schema-schema-name", Version: "1.2", Measures: stepsAndMeatballs()},
			{Namespace: "omh", Name: "schema-other-name", Version: "1.1", Measures: stepsAndMelba()},
			{Namespace: "omh", Name: "schema-name", Version: "1.2", Measures: stepsAndMeatballs()},
			{Namespace: "omh", Name: "schema-name-also", Version: "1.1", Measures: stepsAndMelba()},
			{Namespace: "omh", Name: "schemas-name", Version: "1.2", Measures: stepsAndMeatballs()},
			{Namespace: "granola", Name: "schema-name", Version: "1.1", Measures: stepsAndMelba()},
		},
	}
}

// Default returns the built-in fixture set.
func Default() *Set {
	return &Set{
		Configuration: DefaultConfiguration(),
		SchemaList:    DefaultSchemaList(),
	}
}
