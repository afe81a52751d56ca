package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-gap/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a document against a JSON Schema",
	Long: "Validate a JSON or YAML document against an embedded schema (analysis_result, batch_pairs) " +
		"or a schema file on disk. Exits non-zero and lists the failing fields when the document is invalid.",
	RunE: runValidate,
}

var (
	validateSchema string
	validateFile   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "analysis_result", "Embedded schema name or path to a schema file")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the JSON or YAML document (required)")
	_ = validateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	err := schemas.ValidateFile(validateSchema, validateFile)
	if err == nil {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", validateFile)
		return err
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), validationErr.Error())
		return fmt.Errorf("%s does not match %s", validateFile, validationErr.Schema)
	}
	return err
}
