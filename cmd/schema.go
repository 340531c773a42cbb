package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/promptforge/promptforge/internal/prompt"
)

var schemaYAML bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the assembly input schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := prompt.DescribeInputSchema()
		if schemaYAML {
			data, err := yaml.Marshal(schema)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		}
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaYAML, "yaml", false, "Print YAML instead of JSON")
	rootCmd.AddCommand(schemaCmd)
}
