package tools

import (
	"context"
	"fmt"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsonshape-mcp/internal/validate"
	"github.com/usestring/jsonshape-mcp/pkg/jsonschema"
)

// ValidateInput is the input for jsonshape_validate.
type ValidateInput struct {
	Values    []any  `json:"values,omitempty" jsonschema:"Values to validate. Either values or name is required."`
	Name      string `json:"name,omitempty" jsonschema:"Validate every sample of this stored set instead of inline values"`
	Schema    any    `json:"schema,omitempty" jsonschema:"JSON Schema to validate against. Either schema or schema_set is required."`
	SchemaSet string `json:"schema_set,omitempty" jsonschema:"Validate against the schema inferred from this stored set"`
	MaxErrors int    `json:"max_errors,omitempty" jsonschema:"Max failing results to return (default: 50)"`
}

// ValidateOutput is the output for jsonshape_validate.
type ValidateOutput struct {
	Summary      ValidationSummary `json:"summary"`
	Failures     []ValueValidation `json:"failures,omitzero"`
	CommonErrors []CommonError     `json:"common_errors,omitempty"`
}

// ValidationSummary summarizes the validation results.
type ValidationSummary struct {
	TotalValues   int  `json:"total_values"`
	MatchingCount int  `json:"matching_count"`
	FailedCount   int  `json:"failed_count"`
	AllMatch      bool `json:"all_match"`
	Truncated     bool `json:"truncated,omitempty"`
}

// ValueValidation contains the validation result for a single failing value.
type ValueValidation struct {
	Index  int      `json:"index"`
	Origin string   `json:"origin,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// CommonError represents a frequently occurring validation error.
type CommonError struct {
	Error     string `json:"error"`
	Frequency int    `json:"frequency"`
}

// ToolValidate validates values against a supplied or inferred JSON Schema.
func ToolValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
		if (input.Schema == nil) == (input.SchemaSet == "") {
			return nil, ValidateOutput{}, ErrInvalidInput("exactly one of schema or schema_set is required")
		}
		if (len(input.Values) == 0) == (input.Name == "") {
			return nil, ValidateOutput{}, ErrInvalidInput("exactly one of values or name is required")
		}

		validator, err := d.validatorFor(input)
		if err != nil {
			return nil, ValidateOutput{}, err
		}

		values := input.Values
		var origins []string
		if input.Name != "" {
			set, err := d.GetSet(input.Name)
			if err != nil {
				return nil, ValidateOutput{}, err
			}
			values = set.Values
			origins = set.Origins
		}

		maxErrors := input.MaxErrors
		if maxErrors <= 0 {
			maxErrors = d.Config.DefaultFindLimit
		}

		output := ValidateOutput{
			Summary:  ValidationSummary{TotalValues: len(values)},
			Failures: make([]ValueValidation, 0),
		}
		errorCounts := make(map[string]int)

		for i, v := range values {
			result := validator.Validate(v)
			if result.Valid {
				output.Summary.MatchingCount++
				continue
			}

			output.Summary.FailedCount++
			for _, e := range result.Errors {
				errorCounts[e]++
			}

			if len(output.Failures) >= maxErrors {
				output.Summary.Truncated = true
				continue
			}
			failure := ValueValidation{Index: i, Errors: result.Errors}
			if origins != nil {
				failure.Origin = origins[i]
			}
			output.Failures = append(output.Failures, failure)
		}

		output.Summary.AllMatch = output.Summary.FailedCount == 0

		if len(errorCounts) > 0 {
			output.CommonErrors = make([]CommonError, 0, len(errorCounts))
			for e, count := range errorCounts {
				output.CommonErrors = append(output.CommonErrors, CommonError{Error: e, Frequency: count})
			}
			sort.Slice(output.CommonErrors, func(i, j int) bool {
				a, b := output.CommonErrors[i], output.CommonErrors[j]
				if a.Frequency != b.Frequency {
					return a.Frequency > b.Frequency
				}
				return a.Error < b.Error
			})
		}

		return nil, output, nil
	}
}

func (d *Deps) validatorFor(input ValidateInput) (*validate.Validator, error) {
	if input.SchemaSet != "" {
		set, err := d.GetSet(input.SchemaSet)
		if err != nil {
			return nil, err
		}
		inferred := jsonschema.InferValues(nil, set.Values...)
		if inferred == nil {
			return nil, ErrInvalidInput(fmt.Sprintf("sample set %q is empty", set.Name))
		}
		v, err := validate.Compile(inferred.Schema)
		if err != nil {
			return nil, fmt.Errorf("compiling inferred schema: %w", err)
		}
		return v, nil
	}

	v, err := validate.CompileValue(input.Schema)
	if err != nil {
		return nil, ErrInvalidInput("invalid schema: " + err.Error())
	}
	return v, nil
}
