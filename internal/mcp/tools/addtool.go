package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	invopop "github.com/invopop/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool with the server and validates that the output type's
// zero value passes the SDK's inferred JSON schema. This catches nil-slice bugs
// at startup rather than at runtime.
//
// Panics if the zero value of Out fails schema validation.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// opaqueTypes serialize to JSON that differs from what the schema generator
// infers from their Go shape.
//   - json.RawMessage is inferred as []byte (array of ints).
//   - *invopop.Schema is inferred as an object but the empty schema renders
//     as true and the false schema as false.
var opaqueTypes = map[reflect.Type]string{
	reflect.TypeFor[json.RawMessage](): "json.RawMessage",
	reflect.TypeFor[invopop.Schema]():  "jsonschema.Schema",
}

// CheckOutputSchema validates that the zero value of T passes the JSON schema
// the MCP SDK would infer from it. Call this at registration time to catch
// nil-slice-as-null issues before they surface at runtime.
//
// Go's json.Marshal serializes nil slices as null, but the SDK infers
// "type": "array" from the Go type, so null fails schema validation. Adding
// omitzero to slice fields or initializing them to empty slices fixes this.
//
// Also rejects fields whose JSON form cannot be described from their Go type
// (see opaqueTypes). Such fields must be declared as any and filled through
// types.ToAny.
//
// No-ops for the untyped "any" output or if schema inference itself fails
// (the SDK will report those separately).
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if found := findOpaqueFields(elem, nil, make(map[reflect.Type]bool)); len(found) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s contains %s\n"+
				"  these serialize differently from the schema inferred for their Go type\n"+
				"  Fix: change the field type to any, then convert with types.ToAny:\n"+
				"    v, err := types.ToAny(typedValue)\n"+
				"    output.Field = v",
			toolName, elem, strings.Join(found, ", "),
		))
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	zero := reflect.Zero(elem).Interface()
	data, err := json.Marshal(zero)
	if err != nil {
		return
	}

	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails schema validation: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add `omitzero` to nil-defaulting slice fields, or initialize them to empty slices",
			toolName, elem, err, data,
		))
	}
}

// findOpaqueFields walks a type and returns "path (type)" for every field
// whose type is listed in opaqueTypes.
func findOpaqueFields(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if name, ok := opaqueTypes[t]; ok {
		return []string{fmt.Sprintf("%s (%s)", strings.Join(path, "."), name)}
	}

	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string

	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			fieldPath := append(append([]string(nil), path...), f.Name)
			found = append(found, findOpaqueFields(f.Type, fieldPath, visited)...)
		}

	case reflect.Slice, reflect.Array:
		found = append(found, findOpaqueFields(t.Elem(), append(append([]string(nil), path...), "[]"), visited)...)

	case reflect.Map:
		found = append(found, findOpaqueFields(t.Elem(), append(append([]string(nil), path...), "[value]"), visited)...)
	}

	return found
}
