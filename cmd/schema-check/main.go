// Command schema-check validates record family schema declarations and,
// optionally, attribute documents against them. It is repo tooling for teams
// that keep family schemas in version-controlled JSON or YAML files.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onyxcorp/model/pkg/schema"
)

var attrsPath string

var rootCmd = &cobra.Command{
	Use:   "schema-check",
	Short: "Validate record family schema declarations",
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema-file> [<schema-file>...]",
	Short: "Compile schema declarations and optionally check an attributes document",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var attrs map[string]any
		if attrsPath != "" {
			data, err := os.ReadFile(attrsPath)
			if err != nil {
				return fmt.Errorf("read attributes document: %w", err)
			}
			if err := json.Unmarshal(data, &attrs); err != nil {
				return fmt.Errorf("attributes document %s is not a JSON object: %w", attrsPath, err)
			}
		}
		validator := schema.NewValidator()
		failed := false
		for _, path := range args {
			s, err := loadSchema(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				failed = true
				continue
			}
			if attrs != nil {
				if result := validator.Validate(attrs, s); !result.Valid {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: attributes invalid: %s\n", path, result.Diagnostics)
					failed = true
					continue
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d properties)\n", path, len(s.Properties))
		}
		if failed {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schema.ParseYAML(data)
	default:
		return schema.ParseJSON(data)
	}
}

func init() {
	validateCmd.Flags().StringVar(&attrsPath, "attrs", "", "JSON document of attributes to validate against each schema")
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
