// Package validate checks sample values against JSON Schemas, either inferred
// ones or schemas supplied by the caller.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/jsonshape-mcp/pkg/types"
)

const resourceURL = "schema.json"

// Validator validates JSON values against a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile compiles an inferred schema.
func Compile(schema *invopop.Schema) (*Validator, error) {
	if schema == nil {
		return nil, errors.New("schema is nil")
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return CompileBytes(data)
}

// CompileBytes compiles a JSON Schema document.
func CompileBytes(data []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON Schema: %w", err)
	}
	return CompileValue(doc)
}

// CompileValue compiles a schema that has already been decoded into
// generic JSON values (map[string]any, bool, ...).
func CompileValue(doc any) (*Validator, error) {
	doc, err := normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate validates an already decoded value.
func (v *Validator) Validate(value any) *types.ValidationResult {
	if v == nil || v.schema == nil {
		return &types.ValidationResult{
			Valid:  false,
			Errors: []string{"schema not compiled"},
		}
	}

	value, err := normalize(value)
	if err != nil {
		return &types.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("value is not JSON: %s", err.Error())},
		}
	}

	if err := v.schema.Validate(value); err != nil {
		return &types.ValidationResult{
			Valid:  false,
			Errors: extractValidationErrors(err),
		}
	}
	return &types.ValidationResult{Valid: true}
}

// ValidateBytes parses and validates one JSON document.
func (v *Validator) ValidateBytes(data []byte) *types.ValidationResult {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &types.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %s", err.Error())},
		}
	}
	return v.Validate(value)
}

// normalize round-trips values the validator cannot walk directly (structs,
// typed maps, Go integer kinds) through JSON.
func normalize(v any) (any, error) {
	if isPlain(v) {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func isPlain(v any) bool {
	switch val := v.(type) {
	case nil, bool, string, float64, json.Number:
		return true
	case []any:
		for _, item := range val {
			if !isPlain(item) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, item := range val {
			if !isPlain(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens a validation error tree into deduplicated
// "path: message" lines, sorted by path.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	paths := make([]string, 0, len(errorsByPath))
	for p := range errorsByPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var result []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range errorsByPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectErrors collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		// $ref and oneOf wrappers repeat what their causes say
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], msg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
