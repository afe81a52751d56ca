// Package schemas validates gap_agent documents against their JSON Schemas.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	schemafiles "github.com/jonathan/resume-gap/schemas"
)

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		fmt.Fprintf(&sb, "validation against %s failed:\n", ve.Schema)
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// Embedded returns the compiled embedded schema called name. Schemas are
// compiled once and reused.
func Embedded(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := schemafiles.Read(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateResult marshals v and validates it against the AnalysisResult
// schema.
func ValidateResult(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return ValidateEmbedded(schemafiles.AnalysisResult, gojsonschema.NewBytesLoader(data))
}

// ValidateDocument validates an already-decoded document, such as a YAML
// file unmarshalled into maps, against the embedded schema called name.
func ValidateDocument(name string, doc any) error {
	return ValidateEmbedded(name, gojsonschema.NewGoLoader(doc))
}

// ValidateEmbedded validates the document behind loader against the
// embedded schema called name.
func ValidateEmbedded(name string, loader gojsonschema.JSONLoader) error {
	schema, err := Embedded(name)
	if err != nil {
		return err
	}
	result, err := schema.Validate(loader)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toError(name, result)
}

// Resolve maps a schema argument onto an embedded schema file name. It
// accepts the file name itself or its short form ("analysis_result").
// The second result is false when schema names no embedded schema.
func Resolve(schema string) (string, bool) {
	for _, name := range schemafiles.Names() {
		if schema == name || schema+".schema.json" == name {
			return name, true
		}
	}
	return "", false
}

// ValidateFile validates the JSON or YAML document at path against schema,
// which is either an embedded schema (see Resolve) or a schema file on disk.
func ValidateFile(schema, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document not found: %s", path)
		}
		return fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := documentLoader(path, data)
	if err != nil {
		return err
	}

	if name, ok := Resolve(schema); ok {
		return ValidateEmbedded(name, doc)
	}

	schemaAbsPath, err := filepath.Abs(schema)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewReferenceLoader("file://"+schemaAbsPath), doc)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toError(filepath.Base(schemaAbsPath), result)
}

// documentLoader decodes YAML documents up front so they validate like
// JSON; anything else is handed to gojsonschema as JSON bytes.
func documentLoader(path string, data []byte) (gojsonschema.JSONLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return gojsonschema.NewGoLoader(doc), nil
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("failed to parse %s: invalid JSON", path)
		}
		return gojsonschema.NewBytesLoader(data), nil
	}
}

func toError(schema string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
