package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openmhealth/shimmock/config"
	"github.com/openmhealth/shimmock/internal"
	"github.com/openmhealth/shimmock/pkg/fixtures"
)

var (
	log *logrus.Logger

	cfgFile       string
	showVersion   bool
	dumpConfig    bool
	generateToken bool
	tokenTTL      string
)

var cmd = &cobra.Command{
	Use:   "shimmock",
	Short: "shimmock answers the shim server API with canned fixtures for local UI development",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Fixture utilities",
}

var dumpFixturesCmd = &cobra.Command{
	Use:     "dump",
	Short:   "Write the built-in Withings fixtures as YAML",
	Example: "shimmock fixtures dump --output fixtures.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if err := fixtures.Write(output, fixtures.Default()); err != nil {
			return err
		}
		fmt.Printf("Fixtures written to %s\n", output)
		return nil
	},
}

var generateFixturesCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random fixture file",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		output, _ := cmd.Flags().GetString("output")
		if err := fixtures.Write(output, fixtures.Generate(count, seed)); err != nil {
			return err
		}
		fmt.Printf("Generated %d schemas in %s\n", count, output)
		return nil
	},
}

var dumpJSONSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for shimmock's configuration file",
	Example: "shimmock json-schema > shimmock_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	},
}

func init() {
	fixturesCmd.AddCommand(dumpFixturesCmd)
	fixturesCmd.AddCommand(generateFixturesCmd)
	cmd.AddCommand(fixturesCmd)
	cmd.AddCommand(dumpJSONSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().
		BoolVarP(&generateToken, "generate-token", "g", false, "generate a new JWT token")
	cmd.PersistentFlags().
		StringVar(&tokenTTL, "token-ttl", "0", "lifetime of a generated token, e.g. 24h (0 never expires)")

	dumpFixturesCmd.Flags().StringP("output", "o", "./fixtures.yaml", "Path of the fixture file to write")
	generateFixturesCmd.Flags().Int("count", 11, "Number of schemas to generate")
	generateFixturesCmd.Flags().Int64("seed", 0, "Random seed (0 picks one)")
	generateFixturesCmd.Flags().StringP("output", "o", "./fixtures.yaml", "Path of the fixture file to write")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
