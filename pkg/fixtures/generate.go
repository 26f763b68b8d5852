package fixtures

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/openmhealth/shimmock/pkg/models"
)

var namespaces = []string{"omh", "granola"}

// Generate builds a random fixture set with schemaCount schemas and one setting of each
// type. A seed of 0 picks a random seed.
func Generate(schemaCount int, seed int64) *Set {
	faker := gofakeit.New(seed)
	shimName := faker.Company()

	schemas := make([]models.Schema, 0, schemaCount)
	for i := 0; i < schemaCount; i++ {
		schemas = append(schemas, models.Schema{
			Namespace: faker.RandomString(namespaces),
			Name:      strings.ToLower(faker.HipsterWord() + "-" + faker.Noun()),
			Version:   fmt.Sprintf("%d.%d", faker.Number(1, 3), faker.Number(0, 12)),
			Measures:  []string{faker.HipsterWord() + " count", faker.HipsterWord() + " index"},
		})
	}

	prefix := strings.ToLower(strings.Join(strings.Fields(faker.BuzzWord()), "-"))
	stringValue := faker.LetterN(12)
	settings := []models.ConfigurationSetting{
		{
			SettingID: prefix + ".string",
			Type:      models.SettingTypeString,
			Length:    intPtr(len(stringValue)),
			Label:     faker.HipsterSentence(3),
			Required:  true,
		},
		{
			SettingID:   prefix + ".boolean",
			Type:        models.SettingTypeBoolean,
			Label:       faker.HipsterSentence(3),
			Description: faker.HipsterSentence(10),
		},
		{
			SettingID: prefix + ".integer",
			Type:      models.SettingTypeInteger,
			Label:     faker.HipsterSentence(3),
			Min:       floatPtr(0),
			Max:       floatPtr(100),
			Required:  true,
		},
		{
			SettingID: prefix + ".float",
			Type:      models.SettingTypeFloat,
			Label:     faker.HipsterSentence(3),
		},
	}
	values := []models.ConfigurationValue{
		{SettingID: settings[0].SettingID, Value: stringValue},
		{SettingID: settings[1].SettingID, Value: strconv.FormatBool(faker.Bool())},
		{SettingID: settings[2].SettingID, Value: strconv.Itoa(faker.Number(0, 100))},
		{SettingID: settings[3].SettingID, Value: strconv.FormatFloat(faker.Float64Range(0, 10), 'f', 2, 64)},
	}

	return &Set{
		Configuration: models.Configuration{
			ShimName: shimName,
			Settings: settings,
			Values:   values,
		},
		SchemaList: models.SchemaList{
			ShimName: shimName,
			Schemas:  schemas,
		},
	}
}
