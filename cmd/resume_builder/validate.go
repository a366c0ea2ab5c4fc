package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/content"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate [content-file]",
	Short: "Validate resume content against the schema",
	Long:  "Loads a resume content file (JSON or YAML) and checks it against the resume content schema without rendering anything. With --print-schema the schema is printed instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

var (
	validatePrintSchema bool
	validateSchemaPath  string
)

func init() {
	validateCmd.Flags().BoolVar(&validatePrintSchema, "print-schema", false, "Print the resume content JSON schema and exit")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Also validate against an additional JSON schema file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	if validatePrintSchema {
		_, _ = os.Stdout.Write(schemas.ResumeContentSchema())
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("content file is required")
	}
	path := args[0]

	resume, err := content.Load(path)
	if err != nil {
		return err
	}

	if validateSchemaPath != "" {
		if err := validateExtraSchema(validateSchemaPath, path); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Valid resume content: %s\n", path)
	if verbose {
		observability.NewPrinter(os.Stdout).PrintContentSummary(resume)
	}
	return nil
}

// validateExtraSchema checks the content file against a user-supplied
// schema. YAML content is converted to JSON first.
func validateExtraSchema(schemaPath, contentPath string) error {
	switch strings.ToLower(filepath.Ext(contentPath)) {
	case ".yaml", ".yml":
		schema, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		raw, err := os.ReadFile(contentPath)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		converted, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
		return schemas.ValidateJSONString(string(schema), string(converted))
	default:
		return schemas.ValidateJSON(schemaPath, contentPath)
	}
}
